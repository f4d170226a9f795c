package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/queue"
	"github.com/stationeryhub/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type serviceFixture struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	orderRepo   *repository.GormOrderRepository
	persister   *repository.StoreSessionRepository
	products    *ProductService
	sessions    *SessionService
	orders      *OrderService
}

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.InitReferenceData(db); err != nil {
		t.Fatalf("seed reference data failed: %v", err)
	}
	return db
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := setupServiceTestDB(t)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	persister := repository.NewStoreSessionRepository(db, time.Hour)
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}
	sessions := NewSessionService(persister, productRepo)
	return &serviceFixture{
		db:          db,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		persister:   persister,
		products:    NewProductService(productRepo, repository.NewCategoryRepository(db), 0),
		sessions:    sessions,
		orders:      NewOrderService(orderRepo, productRepo, repository.NewDeliveryAreaRepository(db), sessions, queueClient),
	}
}

func (f *serviceFixture) seedProduct(t *testing.T, name, price, category string, stock *int) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Description: name + " description",
		Price:       models.MustMoney(price),
		Category:    category,
		Stock:       stock,
		IsActive:    true,
	}
	if err := f.productRepo.Create(&product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func intPtr(v int) *int {
	return &v
}

func productKey(p models.Product) string {
	return fmt.Sprintf("%d", p.ID)
}

func productIDString(id uint) string {
	return fmt.Sprintf("%d", id)
}
