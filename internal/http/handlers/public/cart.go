package public

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/store"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest 修改数量请求，quantity 兼容数字与数字字符串
type UpdateCartItemRequest struct {
	Quantity json.RawMessage `json:"quantity" binding:"required"`
}

// parseQuantity 解析数量，非数字、非有限值或超过上限时返回 false
func parseQuantity(raw json.RawMessage) (int, bool) {
	text := strings.TrimSpace(string(raw))
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	if text == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(text); err == nil {
		return clampQuantity(n)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > store.MaxQuantity {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return int(f), true
}

func clampQuantity(n int) (int, bool) {
	if n > store.MaxQuantity {
		return 0, false
	}
	if n < 0 {
		return 0, true
	}
	return n, true
}

// GetSession 获取当前会话（购物车 + 用户）
func (h *Handler) GetSession(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.SessionService.Get(c.Request.Context(), sid)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，已存在时数量加一
func (h *Handler) AddCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.SessionService.Add(c.Request.Context(), sid, req.ProductID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改购物车商品数量，小于等于 0 时移除
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
		return
	}
	quantity, ok := parseQuantity(req.Quantity)
	if !ok {
		respondError(c, response.CodeBadRequest, "error.quantity_invalid", nil)
		return
	}
	view, err := h.SessionService.UpdateQuantity(c.Request.Context(), sid, c.Param("product_id"), quantity)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 移出购物车
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.SessionService.Remove(c.Request.Context(), sid, c.Param("product_id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.SessionService.Clear(c.Request.Context(), sid)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// ToggleCart 切换购物车抽屉开关
func (h *Handler) ToggleCart(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.SessionService.Toggle(c.Request.Context(), sid)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}

// Logout 登出：清除会话用户，购物车保留
func (h *Handler) Logout(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	view, err := h.SessionService.SetUser(c.Request.Context(), sid, nil)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, view)
}
