package service

import (
	"strings"
	"time"

	"github.com/stationeryhub/internal/authz"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
)

// 权限审计动作
const (
	AuditActionAdminCreate   = "admin.create"
	AuditActionAdminSetRoles = "admin.set_roles"
)

// AdminOperator 当前操作的管理员
type AdminOperator struct {
	ID        uint
	Username  string
	RequestID string
}

// AdminWithRoles 管理员及其角色
type AdminWithRoles struct {
	models.Admin
	Roles []string `json:"roles"`
}

// AdminAccessService 后台账号与角色管理，所有变更写入审计日志
type AdminAccessService struct {
	adminRepo repository.AdminRepository
	auditRepo repository.AuthzAuditLogRepository
	authz     *authz.Service
	auth      *AuthService
}

// NewAdminAccessService 创建后台账号与角色管理服务
func NewAdminAccessService(adminRepo repository.AdminRepository, auditRepo repository.AuthzAuditLogRepository, authzService *authz.Service, auth *AuthService) *AdminAccessService {
	return &AdminAccessService{
		adminRepo: adminRepo,
		auditRepo: auditRepo,
		authz:     authzService,
		auth:      auth,
	}
}

// ListAdmins 管理员列表（含角色）
func (s *AdminAccessService) ListAdmins() ([]AdminWithRoles, error) {
	admins, err := s.adminRepo.List()
	if err != nil {
		return nil, err
	}
	result := make([]AdminWithRoles, 0, len(admins))
	for _, admin := range admins {
		roles, err := s.authz.GetAdminRoles(admin.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, AdminWithRoles{Admin: admin, Roles: roles})
	}
	return result, nil
}

// AdminPermissions 管理员权限快照
type AdminPermissions struct {
	AdminID  uint           `json:"admin_id"`
	IsSuper  bool           `json:"is_super"`
	Roles    []string       `json:"roles"`
	Policies []authz.Policy `json:"policies"`
}

// Permissions 角色及合并后的策略；IsSuper 由调用方按鉴权结果填写
func (s *AdminAccessService) Permissions(adminID uint) (*AdminPermissions, error) {
	roles, err := s.authz.GetAdminRoles(adminID)
	if err != nil {
		return nil, err
	}
	policies, err := s.authz.GetAdminPolicies(adminID)
	if err != nil {
		return nil, err
	}
	return &AdminPermissions{AdminID: adminID, Roles: roles, Policies: policies}, nil
}

// ListRoles 角色列表
func (s *AdminAccessService) ListRoles() ([]string, error) {
	return s.authz.ListRoles()
}

// CreateAdmin 创建后台账号并分配角色
func (s *AdminAccessService) CreateAdmin(operator AdminOperator, username, password string, roles []string) (*AdminWithRoles, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}
	if err := s.auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{Username: username, PasswordHash: hash}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	if err := s.authz.SetAdminRoles(admin.ID, roles); err != nil {
		return nil, err
	}
	s.record(operator, admin, AuditActionAdminCreate, roles)
	assigned, err := s.authz.GetAdminRoles(admin.ID)
	if err != nil {
		return nil, err
	}
	return &AdminWithRoles{Admin: *admin, Roles: assigned}, nil
}

// SetAdminRoles 覆盖设置管理员角色
func (s *AdminAccessService) SetAdminRoles(operator AdminOperator, adminID uint, roles []string) ([]string, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, ErrNotFound
	}
	if err := s.authz.SetAdminRoles(admin.ID, roles); err != nil {
		return nil, err
	}
	assigned, err := s.authz.GetAdminRoles(admin.ID)
	if err != nil {
		return nil, err
	}
	s.record(operator, admin, AuditActionAdminSetRoles, assigned)
	return assigned, nil
}

// ListAuditLogs 权限审计日志
func (s *AdminAccessService) ListAuditLogs(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	return s.auditRepo.ListAdmin(filter)
}

func (s *AdminAccessService) record(operator AdminOperator, target *models.Admin, action string, roles []string) {
	if s.auditRepo == nil || operator.ID == 0 {
		return
	}
	entry := &models.AuthzAuditLog{
		OperatorAdminID:  operator.ID,
		OperatorUsername: operator.Username,
		TargetAdminID:    target.ID,
		TargetUsername:   target.Username,
		Action:           action,
		RequestID:        operator.RequestID,
		CreatedAt:        time.Now(),
	}
	entry.SetRoles(roles)
	if err := s.auditRepo.Create(entry); err != nil {
		logger.Warnw("authz_audit_record_failed", "action", action, "target_admin_id", target.ID, "error", err)
	}
}
