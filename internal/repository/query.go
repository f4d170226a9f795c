package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// maxPageSize 单页上限，防止一次拉取整表
const maxPageSize = 100

// paginate 返回分页 scope；pageSize <= 0 表示不分页
func paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// eqIf 值非零时追加等值条件
func eqIf[V comparable](column string, value V) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var zero V
		if value == zero {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// createdBetween 按 created_at 闭区间过滤，nil 端不限
func createdBetween(from, to *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}

// takeOne 取一条记录；不存在时返回 (nil, nil)，由 service 层决定是否视为错误
func takeOne[T any](query *gorm.DB) (*T, error) {
	var row T
	err := query.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// findPage 先统计总数再按 order 取当前页；scopes 只作用于取数（如 Preload）
func findPage[T any](query *gorm.DB, page, pageSize int, order string, scopes ...func(*gorm.DB) *gorm.DB) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if total == 0 {
		return rows, 0, nil
	}
	if err := query.Scopes(append(scopes, paginate(page, pageSize))...).Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
