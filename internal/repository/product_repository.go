package repository

import (
	"errors"
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// ProductRepository 商品数据访问接口；查询不到返回 (nil, nil)
type ProductRepository interface {
	List(filter ProductListFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	ListByIDs(ids []uint) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(productID uint, quantity int) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) ProductRepository
}

// GormProductRepository GORM 实现
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// WithTx 返回绑定到 tx 的仓库
func (r *GormProductRepository) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &GormProductRepository{db: tx}
}

func (r *GormProductRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 按过滤条件分页查询，置顶权重高的在前
func (r *GormProductRepository) List(filter ProductListFilter) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		condition, args := likeAny(r.db, search, "name", "description")
		query = query.Where(condition, args...)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", filter.MinPrice.StringFixed(2))
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", filter.MaxPrice.StringFixed(2))
	}
	return findPage[models.Product](query, filter.Page, filter.PageSize, "sort_order DESC, id ASC")
}

func (r *GormProductRepository) GetByID(id string) (*models.Product, error) {
	return takeOne[models.Product](r.db.Where("id = ?", id))
}

// ListByIDs 批量取商品（结算时校验价格与库存），不保证顺序
func (r *GormProductRepository) ListByIDs(ids []uint) ([]models.Product, error) {
	products := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *GormProductRepository) Delete(id string) error {
	return r.db.Delete(&models.Product{}, "id = ?", id).Error
}

// DecrementStock 扣减库存；stock 为 NULL（不限库存）的商品不受影响但视为成功
func (r *GormProductRepository) DecrementStock(productID uint, quantity int) (int64, error) {
	if productID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Product{}).
		Where("id = ? AND (stock IS NULL OR stock >= ?)", productID, quantity).
		Update("stock", gorm.Expr("CASE WHEN stock IS NULL THEN NULL ELSE stock - ? END", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
