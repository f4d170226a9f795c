package service

import (
	"strings"

	"github.com/stationeryhub/internal/constants"

	"github.com/shopspring/decimal"
)

// PriceRange 价格区间（闭区间，nil 表示不限）
type PriceRange struct {
	ID  string
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// PriceRanges 首页价格筛选项
var PriceRanges = []PriceRange{
	{ID: constants.PriceRangeAll},
	{ID: constants.PriceRangeUnder10, Max: bound(10)},
	{ID: constants.PriceRange10To25, Min: bound(10), Max: bound(25)},
	{ID: constants.PriceRange25To50, Min: bound(25), Max: bound(50)},
	{ID: constants.PriceRangeOver50, Min: bound(50)},
}

// ResolvePriceRange 解析价格区间，空值视为 all
func ResolvePriceRange(id string) (PriceRange, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		id = constants.PriceRangeAll
	}
	for _, r := range PriceRanges {
		if r.ID == id {
			return r, true
		}
	}
	return PriceRange{}, false
}

// normalizeCategoryFilter "All" 与空值均表示不限分类
func normalizeCategoryFilter(category string) string {
	category = strings.TrimSpace(category)
	if strings.EqualFold(category, constants.CategoryAll) {
		return ""
	}
	return category
}
