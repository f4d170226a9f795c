package router

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/config"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"

	defaultSessionCookieName = "sh_session"
	defaultSessionHeaderName = "X-Session-ID"
)

var (
	defaultCORSMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	defaultCORSHeaders = []string{
		"Content-Type",
		"Authorization",
		"Cache-Control",
		"X-Requested-With",
		requestIDHeader,
		defaultSessionHeaderName,
	}
)

// abortFunc 中断请求并输出错误；/api/v1 用 envelope，旧版接口用 {"message"} + HTTP 状态码
type abortFunc func(c *gin.Context, code int, key string, args ...any)

func abortEnvelope(c *gin.Context, code int, key string, args ...any) {
	response.Error(c, code, handlershared.Message(key, args...))
	c.Abort()
}

func abortLegacy(c *gin.Context, code int, key string, args ...any) {
	response.LegacyError(c, response.HTTPStatus(code), handlershared.Message(key, args...))
	c.Abort()
}

// corsPolicy 预先拼好的 CORS 响应头
type corsPolicy struct {
	origins     []string
	credentials bool
	methods     string
	headers     string
	maxAge      string
}

func newCORSPolicy(cfg config.CORSConfig) corsPolicy {
	p := corsPolicy{
		origins:     cfg.AllowedOrigins,
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(orDefault(cfg.AllowedMethods, defaultCORSMethods), ", "),
		headers:     strings.Join(orDefault(cfg.AllowedHeaders, defaultCORSHeaders), ", "),
	}
	if len(p.origins) == 0 {
		p.origins = []string{"*"}
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	}
	return p
}

// allowOrigin 返回 Access-Control-Allow-Origin 的值，空串表示不放行。
// 允许携带凭证时浏览器不接受 *，改为回显请求来源。
func (p corsPolicy) allowOrigin(origin string) string {
	for _, allowed := range p.origins {
		if allowed != "*" {
			continue
		}
		if p.credentials && origin != "" {
			return origin
		}
		return "*"
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range p.origins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// CORSMiddleware 跨域处理，预检请求直接返回 204
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	policy := newCORSPolicy(cfg)
	return func(c *gin.Context) {
		h := c.Writer.Header()
		if origin := policy.allowOrigin(c.GetHeader("Origin")); origin != "" {
			h.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if policy.credentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}
		h.Set("Access-Control-Allow-Methods", policy.methods)
		h.Set("Access-Control-Allow-Headers", policy.headers)
		h.Set("Access-Control-Expose-Headers", requestIDHeader+", "+defaultSessionHeaderName)
		if policy.maxAge != "" {
			h.Set("Access-Control-Max-Age", policy.maxAge)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDMiddleware 沿用上游传入的 X-Request-ID，否则生成 UUID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(handlershared.ContextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(handlershared.ContextKeyRequestID)
}

// SessionMiddleware 为每个请求确定购物车会话。
// 依次读取 Cookie 与请求头，都没有合法 ID 时签发新会话并写入 Cookie。
func SessionMiddleware(cfg config.SessionConfig) gin.HandlerFunc {
	cookieName := strings.TrimSpace(cfg.CookieName)
	if cookieName == "" {
		cookieName = defaultSessionCookieName
	}
	headerName := strings.TrimSpace(cfg.HeaderName)
	if headerName == "" {
		headerName = defaultSessionHeaderName
	}
	maxAge := int(cfg.TTL().Seconds())

	return func(c *gin.Context) {
		sid := ""
		if raw, err := c.Cookie(cookieName); err == nil {
			sid = service.NormalizeSessionID(raw)
		}
		if sid == "" {
			sid = service.NormalizeSessionID(c.GetHeader(headerName))
		}
		if sid == "" {
			sid = service.NewSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sid, maxAge, "/", "", cfg.Secure, true)
		}
		c.Set(handlershared.ContextKeySessionID, sid)
		c.Header(headerName, sid)
		c.Next()
	}
}

// LoggerMiddleware 每个请求一行结构化日志，5xx 或 handler 记录了错误时用 error 级别
func LoggerMiddleware(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.L()
	}
	sugar := log.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", getRequestID(c),
			"session_id", c.GetString(handlershared.ContextKeySessionID),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch {
		case len(c.Errors) > 0:
			sugar.Errorw("request", append(fields, "errors", c.Errors.String())...)
		case c.Writer.Status() >= http.StatusInternalServerError:
			sugar.Errorw("request", fields...)
		default:
			sugar.Infow("request", fields...)
		}
	}
}
