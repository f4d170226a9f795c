package service

import (
	"context"
	"strings"
	"time"

	"github.com/stationeryhub/internal/cache"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogQuery 公开商品列表查询
type CatalogQuery struct {
	Category   string
	Search     string
	PriceRange string
	Page       int
	PageSize   int
}

// CatalogPage 公开商品列表结果（用于缓存）
type CatalogPage struct {
	Items []models.Product `json:"items"`
	Total int64            `json:"total"`
}

// CreateProductInput 创建/更新商品输入
type CreateProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    string
	Stock       *int
	IsActive    *bool
	SortOrder   int
}

// ProductService 商品业务服务
type ProductService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	cacheTTL     time.Duration
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categoryRepo repository.CategoryRepository, cacheTTL time.Duration) *ProductService {
	return &ProductService{repo: repo, categoryRepo: categoryRepo, cacheTTL: cacheTTL}
}

// ListPublic 获取公开商品列表（Redis 缓存）
func (s *ProductService) ListPublic(ctx context.Context, query CatalogQuery) ([]models.Product, int64, error) {
	priceRange, ok := ResolvePriceRange(query.PriceRange)
	if !ok {
		return nil, 0, ErrInvalidPrice
	}
	category := normalizeCategoryFilter(query.Category)
	search := strings.TrimSpace(query.Search)

	var cacheKey string
	if s.cacheTTL > 0 {
		version, err := cache.CatalogVersion(ctx)
		if err != nil {
			logger.Warnw("catalog_cache_version_failed", "error", err)
		} else {
			cacheKey = cache.CatalogListKey(version, category, search, priceRange.ID, query.Page, query.PageSize)
			var cached CatalogPage
			hit, err := cache.GetJSON(ctx, cacheKey, &cached)
			if err != nil {
				logger.Warnw("catalog_cache_get_failed", "key", cacheKey, "error", err)
			} else if hit {
				return cached.Items, cached.Total, nil
			}
		}
	}

	items, total, err := s.repo.List(repository.ProductListFilter{
		Page:       query.Page,
		PageSize:   query.PageSize,
		Category:   category,
		Search:     search,
		MinPrice:   priceRange.Min,
		MaxPrice:   priceRange.Max,
		OnlyActive: true,
	})
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []models.Product{}
	}
	if cacheKey != "" {
		if err := cache.SetJSON(ctx, cacheKey, CatalogPage{Items: items, Total: total}, s.cacheTTL); err != nil {
			logger.Warnw("catalog_cache_set_failed", "key", cacheKey, "error", err)
		}
	}
	return items, total, nil
}

// GetPublicByID 获取公开商品详情
func (s *ProductService) GetPublicByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: normalizeCategoryFilter(category),
		Search:   search,
	})
}

// GetAdminByID 获取后台商品详情
func (s *ProductService) GetAdminByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Categories 商品分类列表
func (s *ProductService) Categories() ([]models.Category, error) {
	return s.categoryRepo.List()
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	product := &models.Product{IsActive: true}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(ctx context.Context, id string, input CreateProductInput) (*models.Product, error) {
	product, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetAdminByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) apply(product *models.Product, input CreateProductInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ErrInvalidInput
	}
	price := input.Price.Round(2)
	if price.IsNegative() {
		return ErrInvalidPrice
	}
	if input.Stock != nil && *input.Stock < 0 {
		return ErrInvalidStock
	}
	category, err := s.categoryRepo.GetByName(strings.TrimSpace(input.Category))
	if err != nil {
		return err
	}
	if category == nil {
		return ErrInvalidCategory
	}

	product.Name = name
	product.Description = strings.TrimSpace(input.Description)
	product.Price = models.NewMoneyFromDecimal(price)
	product.Image = strings.TrimSpace(input.Image)
	product.Category = category.Name
	product.Stock = input.Stock
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := cache.BumpCatalogVersion(ctx); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}
