//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := models.AllModels()
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.MigrateDB(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresCatalogSearchRepositories(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	productRepo := NewProductRepository(db)
	for _, p := range []*models.Product{
		{Name: "Fountain Pen", Description: "Steel nib", Category: "Pens", Price: models.MustMoney("45"), IsActive: true},
		{Name: "Leather Journal", Description: "Dotted PAGES", Category: "Notebooks", Price: models.MustMoney("24.99"), IsActive: true},
	} {
		if err := productRepo.Create(p); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	products, total, err := productRepo.List(ProductListFilter{OnlyActive: true, Search: "pages"})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(products) != 1 || products[0].Name != "Leather Journal" {
		t.Fatalf("unexpected ILIKE result: %d %+v", total, products)
	}

	postRepo := NewPostRepository(db)
	publishedAt := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	post := &models.Post{
		Slug:        "the-art-of-journaling",
		Title:       "The Art of Journaling",
		Author:      "Sarah Johnson",
		Content:     "Keep a notebook close.",
		IsPublished: true,
		PublishedAt: &publishedAt,
	}
	if err := postRepo.Create(post); err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	posts, total, err := postRepo.List(PostListFilter{OnlyPublished: true, Search: "JOHNSON"})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if total != 1 || len(posts) != 1 {
		t.Fatalf("unexpected post search result: %d", total)
	}
}

func TestPostgresOrderStockDecrement(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	productRepo := NewProductRepository(db)
	stock := 3
	product := &models.Product{Name: "Gel Pen Set", Category: "Pens", Price: models.MustMoney("10"), Stock: &stock, IsActive: true}
	if err := productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	affected, err := productRepo.DecrementStock(product.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("decrement stock failed: %v (%d)", err, affected)
	}
	affected, err = productRepo.DecrementStock(product.ID, 2)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("stock must not go negative")
	}

	orderRepo := NewOrderRepository(db)
	order := &models.Order{
		OrderNo:      "SH-PG-1",
		UserID:       1,
		Status:       constants.OrderStatusPending,
		TotalAmount:  models.MustMoney("25"),
		DeliveryArea: "Tartous",
		Address:      "Port st",
		Phone:        "0933",
		Name:         "Rami",
	}
	items := []models.OrderItem{{ProductID: product.ID, ProductName: product.Name, UnitPrice: product.Price, Quantity: 2, TotalPrice: models.MustMoney("20")}}
	if err := orderRepo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	orders, total, err := orderRepo.ListAdmin(OrderListFilter{Status: constants.OrderStatusPending})
	if err != nil || total != 1 || len(orders) != 1 {
		t.Fatalf("list admin orders failed: %v (%d)", err, total)
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("order items should be preloaded")
	}
}
