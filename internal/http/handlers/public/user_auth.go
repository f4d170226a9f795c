package public

import (
	"time"

	"github.com/stationeryhub/internal/constants"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// UserRegisterRequest 注册请求
type UserRegisterRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	MergeSessionID string                              `json:"merge_session_id"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	RememberMe     bool                                `json:"remember_me"`
	MergeSessionID string                              `json:"merge_session_id"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UserRegister 顾客注册，成功后写入会话用户
func (h *Handler) UserRegister(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneRegister, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondAuthError(c, err, "error.internal")
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondAuthError(c, err, "error.internal")
		return
	}
	h.respondSignedIn(c, sid, req.MergeSessionID, user, token, expiresAt)
}

// UserLogin 顾客登录，成功后合并游客购物车并写入会话用户
func (h *Handler) UserLogin(c *gin.Context) {
	sid, ok := sessionID(c)
	if !ok {
		return
	}
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondAuthError(c, err, "error.internal")
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		respondAuthError(c, err, "error.login_failed")
		return
	}
	h.respondSignedIn(c, sid, req.MergeSessionID, user, token, expiresAt)
}

func (h *Handler) respondSignedIn(c *gin.Context, sid, mergeSessionID string, user *models.User, token string, expiresAt time.Time) {
	ctx := c.Request.Context()
	sessionUser := service.CustomerSessionUser(user)
	if mergeSessionID != "" {
		if _, err := h.SessionService.Merge(ctx, sid, mergeSessionID, sessionUser); err != nil {
			respondSessionError(c, err)
			return
		}
	}
	view, err := h.SessionService.SetUser(ctx, sid, sessionUser)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
		"session":    view,
	})
}

// ChangePassword 顾客修改密码
func (h *Handler) ChangePassword(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.UserAuthService.ChangePassword(c.Request.Context(), uid, req.OldPassword, req.NewPassword); err != nil {
		respondAuthError(c, err, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// GetProfile 获取当前顾客信息
func (h *Handler) GetProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		handlershared.RespondMappedError(c, err, []handlershared.MappedError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
		}, response.CodeInternal, "error.query_failed")
		return
	}
	response.Success(c, user)
}
