package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 后台管理员（商品维护、订单处理）
type Admin struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:varchar(100);not null" json:"-"`
	IsSuper      bool   `gorm:"not null;default:false" json:"is_super"` // 跳过 RBAC 校验

	// TokenVersion 与 TokenInvalidBefore 共同决定已签发 JWT 是否仍然有效
	TokenVersion       uint64     `gorm:"not null;default:0" json:"-"`
	TokenInvalidBefore *time.Time `json:"-"`

	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}

// RevokeTokens 使此前签发的全部 Token 失效
func (a *Admin) RevokeTokens(now time.Time) {
	a.TokenVersion++
	a.TokenInvalidBefore = &now
}
