package models

import (
	"strings"
	"time"
)

// AuthzAuditLog 后台账号与角色变更记录
type AuthzAuditLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	OperatorAdminID  uint      `gorm:"index;not null" json:"operator_admin_id"`
	OperatorUsername string    `gorm:"type:varchar(100);not null;default:''" json:"operator_username"`
	TargetAdminID    uint      `gorm:"index;not null;default:0" json:"target_admin_id"`
	TargetUsername   string    `gorm:"type:varchar(100);not null;default:''" json:"target_username"`
	Action           string    `gorm:"type:varchar(64);index;not null" json:"action"`
	Roles            string    `gorm:"type:varchar(500);not null;default:''" json:"-"` // 逗号分隔
	RequestID        string    `gorm:"type:varchar(64);not null;default:''" json:"request_id"`
	CreatedAt        time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}

// SetRoles 以逗号拼接保存角色列表
func (l *AuthzAuditLog) SetRoles(roles []string) {
	l.Roles = strings.Join(roles, ",")
}

// RoleList 还原角色列表，空值返回空切片
func (l AuthzAuditLog) RoleList() []string {
	if l.Roles == "" {
		return []string{}
	}
	return strings.Split(l.Roles, ",")
}
