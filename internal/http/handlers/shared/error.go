package shared

import (
	"errors"

	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if id := RequestID(c); id != "" {
		return logger.SW("request_id", id)
	}
	return logger.S()
}

// RespondError 按文案 key 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithMsg(c, code, Message(key), err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

type keyedError interface {
	Key() string
	Args() []interface{}
}

// RespondWeakPassword 返回密码策略错误，携带具体规则文案。
func RespondWeakPassword(c *gin.Context, err error) {
	var ke keyedError
	if errors.As(err, &ke) {
		response.Error(c, response.CodeBadRequest, Message(ke.Key(), ke.Args()...))
		return
	}
	response.Error(c, response.CodeBadRequest, Message("error.password_weak"))
}

// MessageForError 解析错误对应的展示文案，供旧版接口输出 {"message": ...}
func MessageForError(err error, rules []MappedError, fallbackKey string) (int, string) {
	var ke keyedError
	if errors.As(err, &ke) {
		return response.CodeBadRequest, Message(ke.Key(), ke.Args()...)
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			return rule.Code, Message(rule.Key)
		}
	}
	return response.CodeInternal, Message(fallbackKey)
}
