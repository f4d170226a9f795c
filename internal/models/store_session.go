package models

import (
	"time"
)

// StoreSession 购物车会话快照（session.driver=database 时使用）
type StoreSession struct {
	SessionKey string     `gorm:"column:session_key;primaryKey;type:varchar(128)" json:"session_key"` // 持久化 key
	Payload    string     `gorm:"type:text;not null" json:"payload"`                                  // 快照 JSON
	ExpiresAt  *time.Time `gorm:"index" json:"expires_at"`                                            // 过期时间（nil 表示不过期）
	CreatedAt  time.Time  `json:"created_at"`                                                         // 创建时间
	UpdatedAt  time.Time  `gorm:"index" json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (StoreSession) TableName() string {
	return "store_sessions"
}
