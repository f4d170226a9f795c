package legacy

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/models"
)

const uploadsPrefix = "/uploads/"

// ProductView 旧版商品结构，price 为数字
type ProductView struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Image       string      `json:"image"`
	Category    string      `json:"category"`
	Stock       *int        `json:"stock,omitempty"`
}

// OrderItemView 旧版订单项
type OrderItemView struct {
	ProductID   string      `json:"productId"`
	ProductName string      `json:"productName"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
}

// OrderView 旧版订单结构
type OrderView struct {
	ID           string          `json:"_id"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	DeliveryArea string          `json:"deliveryArea"`
	Items        []OrderItemView `json:"items"`
	Total        json.Number     `json:"total"`
	Status       string          `json:"status"`
	CreatedAt    string          `json:"createdAt"`
}

func moneyNumber(m models.Money) json.Number {
	return json.Number(m.Decimal.StringFixed(2))
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// legacyImage 旧版前端以 /uploads/<image> 拼接图片地址
func legacyImage(image string) string {
	return strings.TrimPrefix(strings.TrimSpace(image), uploadsPrefix)
}

// storedImage 旧版传入的相对路径补全为 /uploads/ 前缀，外链原样保存
func storedImage(image string) string {
	image = strings.TrimSpace(image)
	if image == "" || strings.HasPrefix(image, "/") || strings.Contains(image, "://") {
		return image
	}
	return uploadsPrefix + image
}

// NewProductView 转换为旧版商品结构
func NewProductView(p models.Product) ProductView {
	return ProductView{
		ID:          idString(p.ID),
		Name:        p.Name,
		Description: p.Description,
		Price:       moneyNumber(p.Price),
		Image:       legacyImage(p.Image),
		Category:    p.Category,
		Stock:       p.Stock,
	}
}

// NewOrderView 转换为旧版订单结构
func NewOrderView(o models.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemView{
			ProductID:   idString(item.ProductID),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       moneyNumber(item.UnitPrice),
		})
	}
	return OrderView{
		ID:           idString(o.ID),
		Name:         o.Name,
		Phone:        o.Phone,
		Address:      o.Address,
		DeliveryArea: o.DeliveryArea,
		Items:        items,
		Total:        moneyNumber(o.TotalAmount),
		Status:       o.Status,
		CreatedAt:    o.CreatedAt.UTC().Format(time.RFC3339),
	}
}
