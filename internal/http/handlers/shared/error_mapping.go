package shared

import (
	"errors"

	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 命中规则时按规则响应，否则记录原始错误并返回兜底文案。
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if errors.Is(err, service.ErrWeakPassword) {
		RespondWeakPassword(c, err)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// ConcatMappedErrors 合并多组映射规则，靠前的优先。
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// ProductErrorRules 商品维护错误映射
var ProductErrorRules = []MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrInvalidCategory, Code: response.CodeBadRequest, Key: "error.category_invalid"},
	{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_invalid"},
	{Target: service.ErrInvalidStock, Code: response.CodeBadRequest, Key: "error.stock_invalid"},
}

// PostErrorRules 文章维护错误映射
var PostErrorRules = []MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.post_not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.post_invalid"},
	{Target: service.ErrSlugExists, Code: response.CodeConflict, Key: "error.slug_exists"},
}

// SessionErrorRules 购物车会话错误映射
var SessionErrorRules = []MappedError{
	{Target: service.ErrInvalidSession, Code: response.CodeBadRequest, Key: "error.session_invalid"},
	{Target: service.ErrSessionMergeForbidden, Code: response.CodeForbidden, Key: "error.session_merge_forbidden"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeNotFound, Key: "error.product_not_available"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
}

// CheckoutErrorRules 下单错误映射
var CheckoutErrorRules = []MappedError{
	{Target: service.ErrInvalidSession, Code: response.CodeBadRequest, Key: "error.session_invalid"},
	{Target: service.ErrLoginRequired, Code: response.CodeUnauthorized, Key: "error.login_required"},
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest, Key: "error.cart_empty"},
	{Target: service.ErrDeliveryAreaInvalid, Code: response.CodeBadRequest, Key: "error.delivery_area_invalid"},
	{Target: service.ErrShippingInfoRequired, Code: response.CodeBadRequest, Key: "error.shipping_info_required"},
	{Target: service.ErrProductNotAvailable, Code: response.CodeBadRequest, Key: "error.product_not_available"},
	{Target: service.ErrStockInsufficient, Code: response.CodeConflict, Key: "error.stock_insufficient"},
}

// OrderErrorRules 订单查询与状态更新错误映射
var OrderErrorRules = []MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrInvalidOrderStatus, Code: response.CodeBadRequest, Key: "error.order_status_invalid"},
}

// AuthErrorRules 登录注册错误映射
var AuthErrorRules = []MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.login_failed"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_old_invalid"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
	{Target: service.ErrInvalidUsername, Code: response.CodeBadRequest, Key: "error.username_invalid"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrCaptchaConfigInvalid, Code: response.CodeInternal, Key: "error.captcha_config_invalid"},
}

// UploadErrorRules 上传错误映射
var UploadErrorRules = []MappedError{
	{Target: service.ErrUploadTooLarge, Code: response.CodeBadRequest, Key: "error.upload_too_large"},
	{Target: service.ErrUploadExtension, Code: response.CodeBadRequest, Key: "error.upload_extension"},
	{Target: service.ErrUploadContentType, Code: response.CodeBadRequest, Key: "error.upload_content_type"},
	{Target: service.ErrUploadImageDimension, Code: response.CodeBadRequest, Key: "error.upload_image_dimension"},
	{Target: service.ErrUploadImageInvalid, Code: response.CodeBadRequest, Key: "error.upload_image_invalid"},
}
