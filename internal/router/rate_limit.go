package router

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求提取限流维度，返回空串时退回客户端 IP
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流：窗口内超过 MaxRequests 次后封禁 BlockSeconds
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

// KEYS[1] 计数，KEYS[2] 封禁标记；返回 {count, ttl}，count 为 -1 表示处于封禁期
var rateLimitScript = redis.NewScript(`
local blocked = redis.call("TTL", KEYS[2])
if blocked > 0 then
	return {-1, blocked}
end
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) and tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[2], "1", "EX", ARGV[3])
	redis.call("DEL", KEYS[1])
	return {current, tonumber(ARGV[3])}
end
return {current, redis.call("TTL", KEYS[1])}
`)

// RateLimitMiddleware /api/v1 接口限流
func RateLimitMiddleware(client redis.UniversalClient, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return rateLimit(client, rule, keyFunc, abortEnvelope)
}

// LegacyRateLimitMiddleware 旧版接口限流，超限返回 429 {"message"}
func LegacyRateLimitMiddleware(client redis.UniversalClient, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return rateLimit(client, rule, keyFunc, abortLegacy)
}

func rateLimit(client redis.UniversalClient, rule RateLimitRule, keyFunc RateLimitKeyFunc, abort abortFunc) gin.HandlerFunc {
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = "error.login_rate_limited"
	}
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}
		key := rule.key(c, keyFunc)
		wait, limited, err := rule.hit(c, client, key)
		if err != nil {
			// Redis 不可用时放行
			logger.Warnw("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}
		if !limited {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(wait))
		abort(c, response.CodeTooManyRequests, msgKey, wait)
	}
}

// hit 计一次请求，limited 时 wait 为建议等待秒数（至少 1）
func (r RateLimitRule) hit(c *gin.Context, client redis.UniversalClient, key string) (int, bool, error) {
	values, err := rateLimitScript.Run(c.Request.Context(), client,
		[]string{key, key + ":blocked"},
		r.WindowSeconds, r.MaxRequests, r.BlockSeconds,
	).Int64Slice()
	if err != nil {
		return 0, false, err
	}
	if len(values) < 2 {
		return 0, false, nil
	}
	count, ttl := values[0], values[1]
	if count >= 0 && count <= int64(r.MaxRequests) {
		return 0, false, nil
	}
	wait := int(ttl)
	if wait < 1 {
		wait = max(r.WindowSeconds, 1)
	}
	return wait, true, nil
}

func (r RateLimitRule) key(c *gin.Context, keyFunc RateLimitKeyFunc) string {
	var key string
	if keyFunc != nil {
		key = strings.TrimSpace(keyFunc(c))
	}
	if key == "" {
		key = c.ClientIP()
	}
	if r.Prefix == "" {
		return key
	}
	return r.Prefix + ":" + key
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByIPAndJSONField 按 JSON 字段（忽略大小写）+ IP 限流，请求体读取后会原样放回
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONString(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

func peekJSONString(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	var text string
	if raw, ok := payload[field]; !ok || json.Unmarshal(raw, &text) != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
