package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号
	UserID         uint           `gorm:"index;not null" json:"user_id"`                                // 下单用户ID
	Username       string         `gorm:"type:varchar(100);index" json:"username"`                      // 下单用户名快照
	Status         string         `gorm:"index;not null" json:"status"`                                 // 订单状态
	SubtotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal_amount"` // 商品小计
	DeliveryFee    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"delivery_fee"`    // 配送费
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 应付总额
	DeliveryArea   string         `gorm:"type:varchar(100);not null" json:"delivery_area"`              // 配送区域
	Address        string         `gorm:"type:varchar(500);not null" json:"address"`                    // 收货地址
	Phone          string         `gorm:"type:varchar(50);not null" json:"phone"`                       // 联系电话
	Name           string         `gorm:"type:varchar(100);not null" json:"name"`                       // 收货人
	SessionID      string         `gorm:"type:varchar(64);index" json:"-"`                              // 下单会话
	ClientIP       string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`                  // 下单客户端IP
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
