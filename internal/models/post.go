package models

import (
	"time"

	"gorm.io/gorm"
)

// Post 博客文章；前台只展示已发布的
type Post struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	Slug        string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"slug"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Author      string     `gorm:"type:varchar(100);not null;default:''" json:"author"`
	Image       string     `gorm:"type:varchar(500);not null;default:''" json:"image"`
	Content     string     `gorm:"type:text" json:"content"`
	IsPublished bool       `gorm:"not null;default:false;index" json:"is_published"`
	PublishedAt *time.Time `gorm:"index" json:"published_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// Date 列表展示用日期：已发布取发布时间，否则取创建时间
func (p Post) Date() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	return p.CreatedAt
}
