package models

import "time"

// DeliveryArea 配送区域表
type DeliveryArea struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 区域名称
	Cost      Money     `gorm:"type:decimal(20,2);not null;default:0" json:"cost"`  // 配送费
	IsActive  bool      `gorm:"default:true;index" json:"is_active"`                // 是否可选
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt time.Time `json:"created_at"`                                         // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (DeliveryArea) TableName() string {
	return "delivery_areas"
}
