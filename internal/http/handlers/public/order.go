package public

import (
	"strings"

	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 下单请求
type CheckoutRequest struct {
	DeliveryArea string `json:"delivery_area" binding:"required"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Name         string `json:"name"`
}

// Checkout 以当前会话购物车下单
func (h *Handler) Checkout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.delivery_area_invalid", nil)
		return
	}

	order, err := h.OrderService.Checkout(c.Request.Context(), sid, service.CheckoutInput{
		DeliveryArea: req.DeliveryArea,
		Address:      req.Address,
		Phone:        req.Phone,
		Name:         req.Name,
		ClientIP:     c.ClientIP(),
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, order)
}

// GetMyOrders 获取当前顾客订单列表
func (h *Handler) GetMyOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}
	if orders == nil {
		orders = make([]models.Order, 0)
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetMyOrder 获取当前顾客订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	order, err := h.OrderService.GetOrderByUser(orderID, uid)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, order)
}
