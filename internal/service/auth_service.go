package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/cache"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 管理员认证服务
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
}

// NewAuthService 创建认证服务实例
func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
	}
}

// HashPassword 使用 bcrypt 加密密码
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 验证密码
func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword 校验密码是否符合策略
func (s *AuthService) ValidatePassword(password string) error {
	if s == nil || s.cfg == nil {
		return nil
	}
	return validatePassword(s.cfg.Security.PasswordPolicy, password)
}

// JWTClaims 管理员 JWT 声明
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateJWT 生成 JWT Token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	expiresAt := expireAfter(s.cfg.JWT.ExpireHours, 24)
	claims := JWTClaims{
		AdminID:          admin.ID,
		Username:         admin.Username,
		TokenVersion:     admin.TokenVersion,
		RegisteredClaims: registeredClaims("admin:"+strconv.FormatUint(uint64(admin.ID), 10), expiresAt),
	}
	token, err := signToken(claims, s.cfg.JWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseJWT 解析 JWT Token
func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	return parseToken(tokenString, s.cfg.JWT.SecretKey, &JWTClaims{})
}

// Login 管理员登录
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := s.VerifyPassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	admin.LastLoginAt = &now
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := cache.SetAuthState(ctx, cache.SubjectAdmin, cache.AdminAuthState(admin)); err != nil {
		logger.Warnw("admin_auth_state_cache_failed", "admin_id", admin.ID, "error", err)
	}
	return admin, token, expiresAt, nil
}

// UpdateCredentials 修改管理员用户名和/或密码，成功后旧 Token 全部失效
func (s *AuthService) UpdateCredentials(ctx context.Context, adminID uint, oldPassword, newUsername, newPassword string) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	if err := s.VerifyPassword(admin.PasswordHash, oldPassword); err != nil {
		return nil, ErrInvalidPassword
	}

	newUsername = strings.TrimSpace(newUsername)
	if newUsername != "" && newUsername != admin.Username {
		existing, err := s.adminRepo.GetByUsername(newUsername)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != admin.ID {
			return nil, ErrUsernameExists
		}
		admin.Username = newUsername
	}
	if newPassword != "" {
		if err := s.ValidatePassword(newPassword); err != nil {
			return nil, err
		}
		hashed, err := s.HashPassword(newPassword)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hashed
	}

	admin.RevokeTokens(time.Now())
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	if err := cache.SetAuthState(ctx, cache.SubjectAdmin, cache.AdminAuthState(admin)); err != nil {
		logger.Warnw("admin_auth_state_cache_failed", "admin_id", admin.ID, "error", err)
	}
	return admin, nil
}

// AdminSessionUser 管理员登录后写入会话的用户
func AdminSessionUser(admin *models.Admin) *store.User {
	if admin == nil {
		return nil
	}
	return &store.User{
		ID:       "admin-" + strconv.FormatUint(uint64(admin.ID), 10),
		Username: admin.Username,
		IsAdmin:  true,
	}
}
