package models

import "time"

// Category 商品分类表
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`                   // 唯一标识
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 展示名称（商品按名称关联）
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt time.Time `gorm:"index" json:"created_at"`                            // 创建时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
