package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultCategories 内置商品分类（按展示顺序）
var DefaultCategories = []Category{
	{Slug: "notebooks", Name: "Notebooks", SortOrder: 40},
	{Slug: "pens", Name: "Pens", SortOrder: 30},
	{Slug: "paper", Name: "Paper", SortOrder: 20},
	{Slug: "art-supplies", Name: "Art Supplies", SortOrder: 10},
}

// DefaultDeliveryAreas 内置配送区域
var DefaultDeliveryAreas = []DeliveryArea{
	{Name: "Tartous", Cost: MustMoney("5"), IsActive: true, SortOrder: 30},
	{Name: "Latakia", Cost: MustMoney("7"), IsActive: true, SortOrder: 20},
	{Name: "Homs", Cost: MustMoney("10"), IsActive: true, SortOrder: 10},
}

// 默认管理员账号
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// EnsureDefaultAdmin 库中没有管理员时创建一个超级管理员，已有管理员时返回 false
func EnsureDefaultAdmin(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = DefaultAdminUsername
	}
	if password == "" {
		password = DefaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	admin := Admin{Username: username, PasswordHash: string(hash), IsSuper: true}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

// InitReferenceData 写入分类与配送区域（已存在则跳过）
func InitReferenceData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, category := range DefaultCategories {
			row := category
			if err := tx.Where("slug = ?", row.Slug).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		for _, area := range DefaultDeliveryAreas {
			row := area
			if err := tx.Where("name = ?", row.Name).FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
