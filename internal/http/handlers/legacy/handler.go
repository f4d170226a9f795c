// Package legacy 兼容旧版后端契约的接口：原样 JSON、真实 HTTP 状态码、错误体为 {"message": ...}
package legacy

import (
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 旧版接口处理器
type Handler struct {
	*provider.Container
}

// New 创建旧版接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// RespondError 按文案 key 输出旧版错误
func RespondError(c *gin.Context, code int, key string, err error) {
	if err != nil {
		handlershared.RequestLog(c).Errorw("legacy_handler_error", "code", code, "key", key, "error", err)
	}
	response.LegacyError(c, response.HTTPStatus(code), handlershared.Message(key))
}

func respondMappedError(c *gin.Context, err error, rules []handlershared.MappedError, fallbackKey string) {
	code, msg := handlershared.MessageForError(err, rules, fallbackKey)
	if code == response.CodeInternal {
		handlershared.RequestLog(c).Errorw("legacy_handler_error", "error", err)
	}
	response.LegacyError(c, response.HTTPStatus(code), msg)
}
