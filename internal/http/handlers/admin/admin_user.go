package admin

import (
	"strings"

	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

var userStatusErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrInvalidInput, Code: response.CodeBadRequest, Key: "error.bad_request"},
}

// GetAdminUsers 顾客列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	users, total, err := h.UserAuthService.ListUsers(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// UpdateUserStatusRequest 顾客状态更新请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateAdminUserStatus 启用/禁用顾客
func (h *Handler) UpdateAdminUserStatus(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.user_id_invalid", nil)
		return
	}
	var req UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	user, err := h.UserAuthService.SetUserStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		respondMappedError(c, err, userStatusErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, user)
}
