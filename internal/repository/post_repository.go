package repository

import (
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// PostRepository 文章数据访问接口
type PostRepository interface {
	List(filter PostListFilter) ([]models.Post, int64, error)
	GetBySlug(slug string, onlyPublished bool) (*models.Post, error)
	GetByID(id string) (*models.Post, error)
	Create(post *models.Post) error
	Update(post *models.Post) error
	Delete(id string) error
	CountBySlug(slug string, excludeID *string) (int64, error)
}

// GormPostRepository GORM 实现
type GormPostRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建文章仓库
func NewPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// List 文章列表，默认按发布时间倒序
func (r *GormPostRepository) List(filter PostListFilter) ([]models.Post, int64, error) {
	query := r.db.Model(&models.Post{})

	if filter.OnlyPublished {
		query = query.Where("is_published = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := likeAny(r.db, search, "title", "author")
		query = query.Where(condition, args...)
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "published_at DESC, id DESC"
	}
	return findPage[models.Post](query, filter.Page, filter.PageSize, orderBy)
}

// GetBySlug onlyPublished 为 true 时草稿视为不存在
func (r *GormPostRepository) GetBySlug(slug string, onlyPublished bool) (*models.Post, error) {
	query := r.db.Where("slug = ?", slug)
	if onlyPublished {
		query = query.Where("is_published = ?", true)
	}
	return takeOne[models.Post](query)
}

func (r *GormPostRepository) GetByID(id string) (*models.Post, error) {
	return takeOne[models.Post](r.db.Where("id = ?", id))
}

func (r *GormPostRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *GormPostRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *GormPostRepository) Delete(id string) error {
	return r.db.Delete(&models.Post{}, "id = ?", id).Error
}

// CountBySlug slug 占用数，excludeID 用于更新时排除自身
func (r *GormPostRepository) CountBySlug(slug string, excludeID *string) (int64, error) {
	var count int64
	query := r.db.Model(&models.Post{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count, err
}
