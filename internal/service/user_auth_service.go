package service

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/cache"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// UserAuthService 顾客认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建顾客认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{cfg: cfg, userRepo: userRepo}
}

// UserJWTClaims 顾客 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成顾客 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, rememberMe bool) (string, time.Time, error) {
	hours := s.cfg.UserJWT.ExpireHours
	if rememberMe && s.cfg.UserJWT.RememberMeExpireHours > 0 {
		hours = s.cfg.UserJWT.RememberMeExpireHours
	}
	expiresAt := expireAfter(hours, 24)
	claims := UserJWTClaims{
		UserID:           user.ID,
		Username:         user.Username,
		TokenVersion:     user.TokenVersion,
		RegisteredClaims: registeredClaims("user:"+strconv.FormatUint(uint64(user.ID), 10), expiresAt),
	}
	token, err := signToken(claims, s.cfg.UserJWT.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ParseUserJWT 解析顾客 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	return parseToken(tokenString, s.cfg.UserJWT.SecretKey, &UserJWTClaims{})
}

// NormalizeUsername 校验用户名
func NormalizeUsername(raw string) (string, error) {
	username := strings.TrimSpace(raw)
	if !usernamePattern.MatchString(username) {
		return "", ErrInvalidUsername
	}
	return username, nil
}

// Register 注册顾客账号并签发 Token
func (s *UserAuthService) Register(ctx context.Context, username, password string) (*models.User, string, time.Time, error) {
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	existing, err := s.userRepo.GetByUsername(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if existing != nil {
		return nil, "", time.Time{}, ErrUsernameExists
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, "", time.Time{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user := &models.User{
		Username:     normalized,
		PasswordHash: string(hashed),
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", time.Time{}, err
	}
	token, expiresAt, err := s.GenerateUserJWT(user, false)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.cacheState(ctx, user)
	return user, token, expiresAt, nil
}

// Login 顾客登录
func (s *UserAuthService) Login(ctx context.Context, username, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	user, err := s.userRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user, rememberMe)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	s.cacheState(ctx, user)
	return user, token, expiresAt, nil
}

// ChangePassword 登录态修改密码，旧 Token 全部失效
func (s *UserAuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	user.RevokeTokens(time.Now())
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	s.cacheState(ctx, user)
	return nil
}

// GetUserByID 获取顾客
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListUsers 后台顾客列表
func (s *UserAuthService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	return s.userRepo.List(filter)
}

// SetUserStatus 后台启用/禁用顾客，禁用时已签发的 Token 立即失效
func (s *UserAuthService) SetUserStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrInvalidInput
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}
	user.Status = status
	if status == constants.UserStatusDisabled {
		user.RevokeTokens(time.Now())
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	s.cacheState(ctx, user)
	logger.Infow("user_status_updated", "user_id", user.ID, "status", status)
	return user, nil
}

func (s *UserAuthService) cacheState(ctx context.Context, user *models.User) {
	if err := cache.SetAuthState(ctx, cache.SubjectUser, cache.UserAuthState(user)); err != nil {
		logger.Warnw("user_auth_state_cache_failed", "user_id", user.ID, "error", err)
	}
}

// CustomerSessionUser 顾客登录后写入会话的用户
func CustomerSessionUser(user *models.User) *store.User {
	if user == nil {
		return nil
	}
	return &store.User{
		ID:       strconv.FormatUint(uint64(user.ID), 10),
		Username: user.Username,
	}
}
