package repository

import (
	"testing"

	"github.com/stationeryhub/internal/models"

	"github.com/shopspring/decimal"
)

func createTestProduct(t *testing.T, repo *GormProductRepository, name, description, category, price string, stock *int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       models.MustMoney(price),
		Stock:       stock,
		IsActive:    true,
	}
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func intPtr(v int) *int {
	return &v
}

func decimalPtr(raw string) *decimal.Decimal {
	d := decimal.RequireFromString(raw)
	return &d
}

func TestProductListFilters(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createTestProduct(t, repo, "Leather Journal", "A5 dotted notebook", "Notebooks", "24.99", nil)
	createTestProduct(t, repo, "Fountain Pen", "Smooth steel nib", "Pens", "45.00", nil)
	createTestProduct(t, repo, "Gel Pen Set", "Twelve colours", "Pens", "10.00", nil)
	createTestProduct(t, repo, "Watercolor Paper", "Cold press pad", "Paper", "50.00", nil)
	hidden := createTestProduct(t, repo, "Hidden Pen", "inactive", "Pens", "5.00", nil)
	if err := db.Model(hidden).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	cases := []struct {
		name   string
		filter ProductListFilter
		want   int64
	}{
		{name: "all active", filter: ProductListFilter{OnlyActive: true}, want: 4},
		{name: "all including inactive", filter: ProductListFilter{}, want: 5},
		{name: "category case insensitive", filter: ProductListFilter{OnlyActive: true, Category: "pens"}, want: 2},
		{name: "search name", filter: ProductListFilter{OnlyActive: true, Search: "PEN"}, want: 2},
		{name: "search description", filter: ProductListFilter{OnlyActive: true, Search: "dotted"}, want: 1},
		{name: "inclusive lower bound", filter: ProductListFilter{OnlyActive: true, MinPrice: decimalPtr("10"), MaxPrice: decimalPtr("25")}, want: 2},
		{name: "inclusive upper bound", filter: ProductListFilter{OnlyActive: true, MinPrice: decimalPtr("25"), MaxPrice: decimalPtr("50")}, want: 2},
		{name: "over fifty", filter: ProductListFilter{OnlyActive: true, MinPrice: decimalPtr("50")}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, total, err := repo.List(tc.filter)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if total != tc.want || int64(len(items)) != tc.want {
				t.Fatalf("want %d got total=%d len=%d", tc.want, total, len(items))
			}
		})
	}
}

func TestProductListPagination(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	for _, name := range []string{"a", "b", "c"} {
		createTestProduct(t, repo, name, "", "Paper", "1", nil)
	}
	items, total, err := repo.List(ProductListFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(items) != 1 {
		t.Fatalf("unexpected page: total=%d len=%d", total, len(items))
	}
}

func TestProductGetByIDMissing(t *testing.T) {
	repo := NewProductRepository(setupRepositoryTestDB(t))
	product, err := repo.GetByID("999")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if product != nil {
		t.Fatalf("expected nil product")
	}
}

func TestProductDecrementStock(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	limited := createTestProduct(t, repo, "Limited", "", "Pens", "3", intPtr(3))
	unlimited := createTestProduct(t, repo, "Unlimited", "", "Pens", "3", nil)

	affected, err := repo.DecrementStock(limited.ID, 2)
	if err != nil || affected != 1 {
		t.Fatalf("decrement limited failed: affected=%d err=%v", affected, err)
	}
	affected, err = repo.DecrementStock(limited.ID, 2)
	if err != nil {
		t.Fatalf("decrement over stock errored: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected insufficient stock, affected=%d", affected)
	}
	affected, err = repo.DecrementStock(unlimited.ID, 100)
	if err != nil || affected != 1 {
		t.Fatalf("decrement unlimited failed: affected=%d err=%v", affected, err)
	}

	got, err := repo.GetByID("1")
	if err != nil || got == nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got.Stock == nil || *got.Stock != 1 {
		t.Fatalf("unexpected stock: %v", got.Stock)
	}
	reloaded, _ := repo.GetByID("2")
	if reloaded.Stock != nil {
		t.Fatalf("unlimited stock should stay nil")
	}
	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatalf("expected invalid params error")
	}
}
