package repository

import (
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 分类数据访问接口
type CategoryRepository interface {
	List() ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// List 按展示顺序返回全部分类
func (r *GormCategoryRepository) List() ([]models.Category, error) {
	categories := make([]models.Category, 0, 8)
	err := r.db.Order("sort_order DESC, id ASC").Find(&categories).Error
	return categories, err
}

// GetByName 按名称取分类，忽略大小写与首尾空白
func (r *GormCategoryRepository) GetByName(name string) (*models.Category, error) {
	return takeOne[models.Category](r.db.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))))
}
