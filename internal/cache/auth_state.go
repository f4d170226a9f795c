package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/models"
)

const authStateTTL = 10 * time.Minute

// AuthSubject 鉴权快照所属账号类型
type AuthSubject string

const (
	SubjectUser  AuthSubject = "user"
	SubjectAdmin AuthSubject = "admin"
)

// AuthState 校验 Token 所需的账号状态；InvalidBefore 为 Unix 秒，0 表示未设置
type AuthState struct {
	ID            uint   `json:"id"`
	TokenVersion  uint64 `json:"token_version"`
	InvalidBefore int64  `json:"invalid_before"`
	Active        bool   `json:"active"`
	IsSuper       bool   `json:"is_super,omitempty"`
}

// Accepts Token 版本一致且签发时间不早于失效时间点
func (s *AuthState) Accepts(version uint64, issuedAt time.Time) bool {
	if s == nil || version != s.TokenVersion {
		return false
	}
	if s.InvalidBefore <= 0 {
		return true
	}
	return !issuedAt.IsZero() && issuedAt.Unix() >= s.InvalidBefore
}

// UserAuthState 顾客快照，非 active 状态视为停用
func UserAuthState(user *models.User) *AuthState {
	if user == nil {
		return nil
	}
	return &AuthState{
		ID:            user.ID,
		TokenVersion:  user.TokenVersion,
		InvalidBefore: unixSeconds(user.TokenInvalidBefore),
		Active:        strings.EqualFold(strings.TrimSpace(user.Status), constants.UserStatusActive),
	}
}

// AdminAuthState 管理员快照
func AdminAuthState(admin *models.Admin) *AuthState {
	if admin == nil {
		return nil
	}
	return &AuthState{
		ID:            admin.ID,
		TokenVersion:  admin.TokenVersion,
		InvalidBefore: unixSeconds(admin.TokenInvalidBefore),
		Active:        true,
		IsSuper:       admin.IsSuper,
	}
}

func unixSeconds(t *time.Time) int64 {
	if t == nil || t.IsZero() {
		return 0
	}
	return t.Unix()
}

func authStateKey(subject AuthSubject, id uint) string {
	return fmt.Sprintf("auth:%s:%d", subject, id)
}

// GetAuthState 读取快照，未命中时 hit 为 false
func GetAuthState(ctx context.Context, subject AuthSubject, id uint) (*AuthState, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var state AuthState
	hit, err := GetJSON(ctx, authStateKey(subject, id), &state)
	if err != nil || !hit {
		return nil, false, err
	}
	return &state, true, nil
}

// SetAuthState 写入快照
func SetAuthState(ctx context.Context, subject AuthSubject, state *AuthState) error {
	if state == nil || state.ID == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(subject, state.ID), state, authStateTTL)
}

// DelAuthState 删除快照
func DelAuthState(ctx context.Context, subject AuthSubject, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, authStateKey(subject, id))
}
