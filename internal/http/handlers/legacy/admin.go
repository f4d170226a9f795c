package legacy

import (
	"net/http"
	"strings"

	"github.com/stationeryhub/internal/constants"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginRequest 旧版管理员登录请求
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin POST /admin/login，返回 {token, admin}
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Username) == "" || req.Password == "" {
		RespondError(c, response.CodeBadRequest, "error.login_failed", nil)
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondMappedError(c, err, handlershared.AuthErrorRules, "error.internal")
		return
	}
	if sid := handlershared.SessionID(c); sid != "" {
		if _, err := h.SessionService.SetUser(c.Request.Context(), sid, service.AdminSessionUser(admin)); err != nil {
			handlershared.RequestLog(c).Warnw("legacy_admin_login_session_bind_failed", "admin_id", admin.ID, "error", err)
		}
	}

	response.Legacy(c, http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":       idString(admin.ID),
			"username": admin.Username,
		},
		"expiresAt": expiresAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ProbeLogin HEAD /admin/login：连通性探测，固定 405
func (h *Handler) ProbeLogin(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.Status(http.StatusMethodNotAllowed)
}

// ListOrders GET /admin/orders
func (h *Handler) ListOrders(c *gin.Context) {
	orders, _, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Status: strings.ToLower(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, "error.query_failed")
		return
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o))
	}
	response.Legacy(c, http.StatusOK, gin.H{"orders": views})
}

// UpdateOrderStatusRequest 旧版订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus PUT /admin/orders/:id/status
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		RespondError(c, response.CodeNotFound, "error.order_not_found", nil)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		return
	}
	order, err := h.OrderService.UpdateOrderStatus(orderID, req.Status)
	if err != nil {
		respondMappedError(c, err, handlershared.OrderErrorRules, "error.save_failed")
		return
	}
	response.Legacy(c, http.StatusOK, gin.H{
		"message": "Order status updated",
		"order":   NewOrderView(*order),
	})
}

// Upload POST /upload，返回相对 /uploads 的路径
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		file, err = c.FormFile("file")
	}
	if err != nil {
		RespondError(c, response.CodeBadRequest, "error.upload_file_required", nil)
		return
	}
	url, err := h.UploadService.SaveFile(file, c.DefaultPostForm("scene", constants.UploadSceneProduct))
	if err != nil {
		respondMappedError(c, err, handlershared.UploadErrorRules, "error.upload_failed")
		return
	}
	response.Legacy(c, http.StatusCreated, gin.H{
		"message":  "File uploaded successfully",
		"filename": legacyImage(url),
		"url":      url,
	})
}
