package admin

import (
	"strings"

	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/provider"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 管理端处理器，依赖全部来自容器
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.RequireID(c, handlershared.ContextKeyAdminID)
}

// currentOperator 当前操作管理员，写入审计日志
func currentOperator(c *gin.Context) service.AdminOperator {
	return service.AdminOperator{
		ID:        c.GetUint(handlershared.ContextKeyAdminID),
		Username:  strings.TrimSpace(c.GetString(handlershared.ContextKeyUsername)),
		RequestID: handlershared.RequestID(c),
	}
}
