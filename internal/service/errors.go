package service

import "errors"

// 通用错误
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSlugExists      = errors.New("slug already exists")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPrice    = errors.New("invalid price")
	ErrInvalidStock    = errors.New("invalid stock")
)

// 认证相关错误
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("weak password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrUserDisabled       = errors.New("user disabled")
)

// 验证码相关错误
var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
)

// 购物车与下单相关错误
var (
	ErrInvalidSession          = errors.New("invalid session id")
	ErrSessionMergeForbidden   = errors.New("session belongs to another user")
	ErrProductNotAvailable     = errors.New("product not available")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrLoginRequired           = errors.New("login required")
	ErrDeliveryAreaInvalid     = errors.New("delivery area invalid")
	ErrShippingInfoRequired    = errors.New("address, phone and name are required")
	ErrStockInsufficient       = errors.New("stock insufficient")
	ErrInvalidOrderStatus      = errors.New("invalid order status")
	ErrOrderNotFound           = errors.New("order not found")
	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrOrderNotificationFailed = errors.New("order notification enqueue failed")
)

// 上传相关错误
var (
	ErrUploadTooLarge       = errors.New("file too large")
	ErrUploadExtension      = errors.New("file extension not allowed")
	ErrUploadContentType    = errors.New("file type not allowed")
	ErrUploadImageDimension = errors.New("image dimension exceeded")
	ErrUploadImageInvalid   = errors.New("image cannot be decoded")
)
