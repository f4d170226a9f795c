package shared

import (
	"strconv"
	"strings"

	"github.com/stationeryhub/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 中间件写入 gin.Context 的 key
const (
	ContextKeyRequestID    = "request_id"
	ContextKeySessionID    = "session_id"
	ContextKeyAdminID      = "admin_id"
	ContextKeyAdminIsSuper = "admin_is_super"
	ContextKeyUserID       = "user_id"
	ContextKeyUsername     = "username"
)

// RequireID 读取鉴权中间件写入的账号 ID，缺失时直接响应 401
func RequireID(c *gin.Context, key string) (uint, bool) {
	id := c.GetUint(key)
	if id == 0 {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}
	return id, true
}

// SessionID 会话中间件写入的会话 ID
func SessionID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(ContextKeySessionID)
}

// RequestID 当前请求 ID
func RequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(ContextKeyRequestID)
}

// ParseUintParam 解析路径中的正整数 ID
func ParseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
