package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListAuthzAuditLogs 获取权限审计日志列表
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	operatorAdminID, ok := parseOptionalUintQuery(c, "operator_admin_id")
	if !ok {
		return
	}
	targetAdminID, ok := parseOptionalUintQuery(c, "target_admin_id")
	if !ok {
		return
	}
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	items, total, err := h.AdminAccessService.ListAuditLogs(repository.AuthzAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorAdminID,
		TargetAdminID:   targetAdminID,
		Action:          strings.TrimSpace(c.Query("action")),
		Role:            strings.TrimSpace(c.Query("role")),
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	views := make([]auditLogView, 0, len(items))
	for _, item := range items {
		views = append(views, auditLogView{AuthzAuditLog: item, Roles: item.RoleList()})
	}
	response.SuccessWithPage(c, views, response.NewPagination(page, pageSize, total))
}

type auditLogView struct {
	models.AuthzAuditLog
	Roles []string `json:"roles"`
}

func parseOptionalUintQuery(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(value), true
}
