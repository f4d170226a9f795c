package public

import (
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 前台处理器：目录、会话购物车、顾客账户与下单
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.RequireID(c, handlershared.ContextKeyUserID)
}

// sessionID 读取会话 ID，缺失时直接响应错误
func sessionID(c *gin.Context) (string, bool) {
	sid := handlershared.SessionID(c)
	if sid == "" {
		respondError(c, response.CodeBadRequest, "error.session_invalid", nil)
		return "", false
	}
	return sid, true
}
