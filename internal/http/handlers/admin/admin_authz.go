package admin

import (
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

type authzSetAdminRolesPayload struct {
	Roles []string `json:"roles"`
}

type authzCreateAdminPayload struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

var authzAdminErrorRules = []handlershared.MappedError{
	{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
	{Target: service.ErrInvalidUsername, Code: response.CodeBadRequest, Key: "error.username_invalid"},
	{Target: service.ErrUsernameExists, Code: response.CodeConflict, Key: "error.username_exists"},
}

// GetAuthzMe 当前管理员的角色与生效策略
func (h *Handler) GetAuthzMe(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	perms, err := h.AdminAccessService.Permissions(adminID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	perms.IsSuper = c.GetBool(handlershared.ContextKeyAdminIsSuper)
	response.Success(c, perms)
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AdminAccessService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, roles)
}

// ListAuthzAdmins 获取管理员列表
func (h *Handler) ListAuthzAdmins(c *gin.Context) {
	admins, err := h.AdminAccessService.ListAdmins()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, admins)
}

// CreateAuthzAdmin 创建后台账号
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	var req authzCreateAdminPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	admin, err := h.AdminAccessService.CreateAdmin(currentOperator(c), req.Username, req.Password, req.Roles)
	if err != nil {
		respondMappedError(c, err, authzAdminErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, admin)
}

// SetAuthzAdminRoles 覆盖设置管理员角色
func (h *Handler) SetAuthzAdminRoles(c *gin.Context) {
	adminID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.admin_id_invalid", nil)
		return
	}
	var req authzSetAdminRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	roles, err := h.AdminAccessService.SetAdminRoles(currentOperator(c), adminID, req.Roles)
	if err != nil {
		respondMappedError(c, err, authzAdminErrorRules, response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"admin_id": adminID, "roles": roles})
}
