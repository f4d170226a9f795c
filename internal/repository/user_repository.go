package repository

import (
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByUsername(username string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByUsername 用户名不区分大小写
func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	return takeOne[models.User](r.db.Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))))
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	return takeOne[models.User](r.db.Where("id = ?", id))
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 后台用户列表，新注册的在前
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, args := likeAny(r.db, keyword, "username")
		query = query.Where(condition, args...)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	return findPage[models.User](query, filter.Page, filter.PageSize, "id DESC")
}
