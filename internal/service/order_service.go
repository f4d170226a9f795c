package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/stationeryhub/internal/constants"
	"github.com/stationeryhub/internal/logger"
	"github.com/stationeryhub/internal/metrics"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/queue"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput 下单输入
type CheckoutInput struct {
	DeliveryArea string
	Address      string
	Phone        string
	Name         string
	ClientIP     string
}

// OrderService 订单业务服务
type OrderService struct {
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	deliveryAreaRepo repository.DeliveryAreaRepository
	sessions         *SessionService
	queueClient      *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, deliveryAreaRepo repository.DeliveryAreaRepository, sessions *SessionService, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		deliveryAreaRepo: deliveryAreaRepo,
		sessions:         sessions,
		queueClient:      queueClient,
	}
}

// DeliveryAreas 可选配送区域
func (s *OrderService) DeliveryAreas() ([]models.DeliveryArea, error) {
	return s.deliveryAreaRepo.ListActive()
}

// Checkout 以会话购物车下单：重新定价、扣减库存、写入订单并清空购物车
func (s *OrderService) Checkout(ctx context.Context, sid string, input CheckoutInput) (*models.Order, error) {
	input.Address = strings.TrimSpace(input.Address)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Name = strings.TrimSpace(input.Name)
	if input.Address == "" || input.Phone == "" || input.Name == "" {
		return nil, ErrShippingInfoRequired
	}
	area, err := s.deliveryAreaRepo.GetByName(strings.TrimSpace(input.DeliveryArea))
	if err != nil {
		return nil, err
	}
	if area == nil || !area.IsActive {
		return nil, ErrDeliveryAreaInvalid
	}

	var order *models.Order
	_, err = s.sessions.Apply(ctx, sid, "checkout", func(st *store.Store) error {
		user := st.User()
		if user == nil {
			return ErrLoginRequired
		}
		lines := st.Lines()
		if len(lines) == 0 {
			return ErrCartEmpty
		}
		built, items, err := s.buildOrder(user, lines, area, input)
		if err != nil {
			return err
		}
		built.SessionID = NormalizeSessionID(sid)

		err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range items {
				affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if affected == 0 {
					return ErrStockInsufficient
				}
			}
			return s.orderRepo.WithTx(tx).Create(built, items)
		})
		if err != nil {
			return err
		}
		order = built
		st.ClearCart()
		return nil
	})
	if err != nil {
		if order == nil {
			return nil, err
		}
		// 订单已提交，清空购物车的持久化失败不能回滚订单
		logger.Errorw("checkout_cart_clear_failed",
			"order_id", order.ID,
			"order_no", order.OrderNo,
			"session_id", order.SessionID,
			"error", err,
		)
	}

	metrics.IncOrdersCreated()
	logger.Infow("order_created",
		"order_id", order.ID,
		"order_no", order.OrderNo,
		"user_id", order.UserID,
		"total_amount", order.TotalAmount.String(),
	)
	s.notifyStatus(order.ID, order.Status)
	return order, nil
}

func (s *OrderService) buildOrder(user *store.User, lines []store.CartLine, area *models.DeliveryArea, input CheckoutInput) (*models.Order, []models.OrderItem, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		id, err := strconv.ParseUint(line.ID, 10, 64)
		if err != nil {
			return nil, nil, ErrProductNotAvailable
		}
		ids = append(ids, uint(id))
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for i, line := range lines {
		product, ok := byID[ids[i]]
		if !ok || !product.IsActive {
			return nil, nil, ErrProductNotAvailable
		}
		if line.Quantity <= 0 {
			return nil, nil, ErrInvalidQuantity
		}
		if product.Stock != nil && *product.Stock < line.Quantity {
			return nil, nil, ErrStockInsufficient
		}
		lineTotal := product.Price.Times(line.Quantity)
		subtotal = subtotal.Add(lineTotal.Decimal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Image:       product.Image,
			Category:    product.Category,
			UnitPrice:   product.Price,
			Quantity:    line.Quantity,
			TotalPrice:  lineTotal,
		})
	}

	subtotalAmount := models.NewMoneyFromDecimal(subtotal)
	order := &models.Order{
		OrderNo:        generateOrderNo(),
		UserID:         sessionUserID(user),
		Username:       user.Username,
		Status:         constants.OrderStatusPending,
		SubtotalAmount: subtotalAmount,
		DeliveryFee:    area.Cost,
		TotalAmount:    subtotalAmount.Plus(area.Cost),
		DeliveryArea:   area.Name,
		Address:        input.Address,
		Phone:          input.Phone,
		Name:           input.Name,
		ClientIP:       strings.TrimSpace(input.ClientIP),
	}
	return order, items, nil
}

// ListOrdersByUser 顾客订单列表
func (s *OrderService) ListOrdersByUser(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, ErrLoginRequired
	}
	return s.orderRepo.ListByUser(filter)
}

// GetOrderByUser 顾客订单详情
func (s *OrderService) GetOrderByUser(orderID, userID uint) (*models.Order, error) {
	if orderID == 0 || userID == 0 {
		return nil, ErrOrderNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrdersForAdmin 后台订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if status := strings.TrimSpace(filter.Status); status != "" && !IsValidOrderStatus(status) {
		return nil, 0, ErrInvalidOrderStatus
	}
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 后台订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus 后台更新订单状态，状态可在四种之间任意切换
func (s *OrderService) UpdateOrderStatus(orderID uint, targetStatus string) (*models.Order, error) {
	target := strings.ToLower(strings.TrimSpace(targetStatus))
	if !IsValidOrderStatus(target) {
		return nil, ErrInvalidOrderStatus
	}
	order, err := s.GetOrderForAdmin(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == target {
		return order, nil
	}
	if _, err := s.orderRepo.UpdateStatus(order.ID, target); err != nil {
		return nil, err
	}
	previous := order.Status
	order.Status = target
	logger.Infow("order_status_updated", "order_id", order.ID, "order_no", order.OrderNo, "from", previous, "to", target)
	s.notifyStatus(order.ID, target)
	return order, nil
}

func (s *OrderService) notifyStatus(orderID uint, status string) {
	if s.queueClient == nil {
		return
	}
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{OrderID: orderID, Status: status}); err != nil {
		logger.Warnw("order_enqueue_status_notify_failed",
			"order_id", orderID,
			"status", status,
			"error", errors.Join(ErrOrderNotificationFailed, err),
		)
	}
}

// IsValidOrderStatus 判断订单状态是否合法
func IsValidOrderStatus(status string) bool {
	for _, candidate := range constants.OrderStatuses {
		if candidate == status {
			return true
		}
	}
	return false
}

// sessionUserID 顾客会话用户 ID 为数字；管理员会话下单时记为 0
func sessionUserID(user *store.User) uint {
	if user == nil || user.IsAdmin {
		return 0
	}
	id, err := strconv.ParseUint(user.ID, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func generateOrderNo() string {
	return fmt.Sprintf("SH%s%s", time.Now().Format("20060102150405"), randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteByte('0')
			continue
		}
		b.WriteString(strconv.FormatInt(n.Int64(), 10))
	}
	return b.String()
}
