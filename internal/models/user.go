package models

import (
	"time"

	"gorm.io/gorm"
)

// User 前台顾客账号；游客下单不需要账号
type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
	Status       string `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// RevokeTokens 使此前签发的全部 Token 失效
func (u *User) RevokeTokens(now time.Time) {
	u.TokenVersion++
	u.TokenInvalidBefore = &now
}
