package repository

import (
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// AuthzAuditLogRepository 权限变更审计
type AuthzAuditLogRepository interface {
	Create(entry *models.AuthzAuditLog) error
	ListAdmin(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error)
}

// GormAuthzAuditLogRepository GORM 实现
type GormAuthzAuditLogRepository struct {
	db *gorm.DB
}

// NewAuthzAuditLogRepository 创建权限审计日志仓库
func NewAuthzAuditLogRepository(db *gorm.DB) *GormAuthzAuditLogRepository {
	return &GormAuthzAuditLogRepository{db: db}
}

// Create 写入一条审计记录
func (r *GormAuthzAuditLogRepository) Create(entry *models.AuthzAuditLog) error {
	if entry == nil {
		return nil
	}
	return r.db.Create(entry).Error
}

// ListAdmin 按操作人、目标、动作、角色与时间过滤，最新的在前
func (r *GormAuthzAuditLogRepository) ListAdmin(filter AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	query := r.db.Model(&models.AuthzAuditLog{}).Scopes(
		eqIf("operator_admin_id", filter.OperatorAdminID),
		eqIf("target_admin_id", filter.TargetAdminID),
		eqIf("action", strings.TrimSpace(filter.Action)),
		createdBetween(filter.CreatedFrom, filter.CreatedTo),
	)
	if role := strings.TrimSpace(filter.Role); role != "" {
		// roles 为逗号分隔列表，按完整元素匹配
		query = query.Where("(',' || roles || ',') LIKE ?", "%,"+role+",%")
	}
	return findPage[models.AuthzAuditLog](query, filter.Page, filter.PageSize, "id DESC")
}
