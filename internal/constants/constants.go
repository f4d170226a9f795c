package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
)

// OrderStatuses 订单状态（按流转顺序）
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// 商品分类常量
const (
	CategoryAll         = "All"
	CategoryNotebooks   = "Notebooks"
	CategoryPens        = "Pens"
	CategoryPaper       = "Paper"
	CategoryArtSupplies = "Art Supplies"
)

// 价格区间常量
const (
	PriceRangeAll     = "all"
	PriceRangeUnder10 = "under-10"
	PriceRange10To25  = "10-25"
	PriceRange25To50  = "25-50"
	PriceRangeOver50  = "over-50"
)

// 会话存储驱动
const (
	SessionDriverRedis    = "redis"
	SessionDriverDatabase = "database"
)

// 上传场景常量
const (
	UploadSceneProduct = "product"
	UploadScenePost    = "post"
	UploadSceneCommon  = "common"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 队列常量
const (
	QueueDefault          = "default"
	TaskOrderStatusNotify = "order:status_notify"
	TaskSessionPurge      = "session:purge_expired"
)

// 验证码常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"

	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)
