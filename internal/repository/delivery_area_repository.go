package repository

import (
	"strings"

	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

// DeliveryAreaRepository 配送区域数据访问接口
type DeliveryAreaRepository interface {
	ListActive() ([]models.DeliveryArea, error)
	GetByName(name string) (*models.DeliveryArea, error)
}

// GormDeliveryAreaRepository GORM 实现
type GormDeliveryAreaRepository struct {
	db *gorm.DB
}

// NewDeliveryAreaRepository 创建配送区域仓库
func NewDeliveryAreaRepository(db *gorm.DB) *GormDeliveryAreaRepository {
	return &GormDeliveryAreaRepository{db: db}
}

// ListActive 可选配送区域
func (r *GormDeliveryAreaRepository) ListActive() ([]models.DeliveryArea, error) {
	areas := make([]models.DeliveryArea, 0)
	if err := r.db.Where("is_active = ?", true).Order("sort_order DESC, id ASC").Find(&areas).Error; err != nil {
		return nil, err
	}
	return areas, nil
}

// GetByName 按名称取启用中的区域，忽略大小写；停用或不存在返回 nil
func (r *GormDeliveryAreaRepository) GetByName(name string) (*models.DeliveryArea, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, nil
	}
	return takeOne[models.DeliveryArea](r.db.Where("LOWER(name) = ? AND is_active = ?", key, true))
}
