package main

import (
	"time"

	"github.com/stationeryhub/internal/app"
	"github.com/stationeryhub/internal/config"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/models"

	"gorm.io/gorm"
)

const sampleImage = "https://images.unsplash.com/photo-1544816155-12df9643f363?auto=format&fit=crop&q=80"

func intPtr(v int) *int {
	return &v
}

func datePtr(raw string) *time.Time {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	// 迁移并写入分类与配送区域；管理员由 server 首次启动时创建
	if err := app.PrepareDatabase(cfg.Database, app.AdminSeed{Skip: true}); err != nil {
		stdLog.Fatalf("prepare database: %v", err)
	}
	stdLog.Printf("reference data ready: %d categories, %d delivery areas", len(models.DefaultCategories), len(models.DefaultDeliveryAreas))

	// 添加商品
	products := []models.Product{
		{
			Name:        "Premium Notebook",
			Description: "A5 hardcover notebook with 192 dotted pages of 100gsm paper.",
			Price:       models.MustMoney("24.99"),
			Image:       sampleImage,
			Category:    "Notebooks",
			Stock:       intPtr(50),
			IsActive:    true,
			SortOrder:   50,
		},
		{
			Name:        "Leather Travel Journal",
			Description: "Refillable leather cover with three lined inserts.",
			Price:       models.MustMoney("39.00"),
			Image:       "https://images.unsplash.com/photo-1531346878377-a5be20888e57?auto=format&fit=crop&q=80",
			Category:    "Notebooks",
			Stock:       intPtr(20),
			IsActive:    true,
			SortOrder:   40,
		},
		{
			Name:        "Classic Fountain Pen",
			Description: "Steel medium nib, converter and two ink cartridges included.",
			Price:       models.MustMoney("45.00"),
			Image:       "https://images.unsplash.com/photo-1585336261022-680e295ce3fe?auto=format&fit=crop&q=80",
			Category:    "Pens",
			Stock:       intPtr(15),
			IsActive:    true,
			SortOrder:   30,
		},
		{
			Name:        "Gel Pen Set",
			Description: "Twelve 0.5mm gel pens in assorted colours.",
			Price:       models.MustMoney("9.50"),
			Image:       "https://images.unsplash.com/photo-1583485088034-697b5bc54ccd?auto=format&fit=crop&q=80",
			Category:    "Pens",
			IsActive:    true,
			SortOrder:   20,
		},
		{
			Name:        "Kraft Letter Paper",
			Description: "Fifty sheets of A4 kraft paper with matching envelopes.",
			Price:       models.MustMoney("12.00"),
			Image:       "https://images.unsplash.com/photo-1516383740770-fbcc5ccbece0?auto=format&fit=crop&q=80",
			Category:    "Paper",
			Stock:       intPtr(40),
			IsActive:    true,
			SortOrder:   10,
		},
		{
			Name:        "Watercolor Starter Kit",
			Description: "24 half pans, two brushes and a cold press paper pad.",
			Price:       models.MustMoney("58.00"),
			Image:       "https://images.unsplash.com/photo-1513364776144-60967b0f800f?auto=format&fit=crop&q=80",
			Category:    "Art Supplies",
			Stock:       intPtr(8),
			IsActive:    true,
		},
	}

	created, err := seedRows(models.DB, products, "name", func(p models.Product) string { return p.Name })
	if err != nil {
		stdLog.Fatalf("seed products: %v", err)
	}
	stdLog.Printf("products: %d created, %d already present", created, len(products)-created)

	// 添加文章
	posts := []models.Post{
		{
			Slug:        "the-art-of-journaling",
			Title:       "The Art of Journaling",
			Content:     "Discover how daily journaling can enhance your creativity and productivity...",
			Image:       "https://images.unsplash.com/photo-1517842645767-c639042777db?auto=format&fit=crop&q=80",
			Author:      "Sarah Johnson",
			IsPublished: true,
			PublishedAt: datePtr("2024-02-28"),
		},
		{
			Slug:        "choosing-the-perfect-fountain-pen",
			Title:       "Choosing the Perfect Fountain Pen",
			Content:     "A comprehensive guide to selecting your ideal fountain pen...",
			Image:       "https://images.unsplash.com/photo-1585336261022-680e295ce3fe?auto=format&fit=crop&q=80",
			Author:      "Michael Chen",
			IsPublished: true,
			PublishedAt: datePtr("2024-02-25"),
		},
	}

	created, err = seedRows(models.DB, posts, "slug", func(p models.Post) string { return p.Slug })
	if err != nil {
		stdLog.Fatalf("seed posts: %v", err)
	}
	stdLog.Printf("posts: %d created, %d already present", created, len(posts)-created)

	stdLog.Printf("seed completed")
}

// seedRows 按唯一列逐行插入，已存在的行跳过，返回新建数量
func seedRows[T any](db *gorm.DB, rows []T, column string, key func(T) string) (int, error) {
	created := 0
	for i := range rows {
		var count int64
		if err := db.Model(new(T)).Where(column+" = ?", key(rows[i])).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&rows[i]).Error; err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
