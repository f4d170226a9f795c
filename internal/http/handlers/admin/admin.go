package admin

import (
	"strings"
	"time"

	"github.com/stationeryhub/internal/constants"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username       string                              `json:"username" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// AdminLogin 管理员登录，成功后把管理员写入当前会话
func (h *Handler) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); err != nil {
		respondMappedError(c, err, handlershared.AuthErrorRules, response.CodeInternal, "error.internal")
		return
	}

	admin, token, expiresAt, err := h.AuthService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondMappedError(c, err, handlershared.AuthErrorRules, response.CodeInternal, "error.login_failed")
		return
	}
	h.bindAdminSession(c, admin)

	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"isAdmin":  true,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// bindAdminSession 登录成功后写入会话用户，失败只记录日志
func (h *Handler) bindAdminSession(c *gin.Context, admin *models.Admin) {
	sid := handlershared.SessionID(c)
	if sid == "" {
		return
	}
	if _, err := h.SessionService.SetUser(c.Request.Context(), sid, service.AdminSessionUser(admin)); err != nil {
		handlershared.RequestLog(c).Warnw("admin_login_session_bind_failed", "admin_id", admin.ID, "error", err)
	}
}

// UpdateCredentialsRequest 修改账号密码请求
type UpdateCredentialsRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewUsername string `json:"new_username"`
	NewPassword string `json:"new_password"`
}

// UpdateAdminCredentials 修改管理员用户名/密码
func (h *Handler) UpdateAdminCredentials(c *gin.Context) {
	id, ok := getAdminID(c)
	if !ok {
		return
	}
	var req UpdateCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	admin, err := h.AuthService.UpdateCredentials(c.Request.Context(), id, req.OldPassword, req.NewUsername, req.NewPassword)
	if err != nil {
		respondMappedError(c, err, handlershared.ConcatMappedErrors(handlershared.AuthErrorRules, []handlershared.MappedError{
			{Target: service.ErrNotFound, Code: response.CodeNotFound, Key: "error.not_found"},
		}), response.CodeInternal, "error.save_failed")
		return
	}
	response.Success(c, gin.H{"id": admin.ID, "username": admin.Username})
}

// GetAdminCategories 获取分类列表 (Admin)
func (h *Handler) GetAdminCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, categories)
}

// ====================  商品管理  ====================

// ProductRequest 商品创建/更新请求，price 兼容数字与字符串
type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Category    string           `json:"category"`
	Stock       *int             `json:"stock"`
	IsActive    *bool            `json:"is_active"`
	SortOrder   int              `json:"sort_order"`
}

// ToServiceInput 转换为 service 层输入，price 缺失视为非法
func (r ProductRequest) ToServiceInput() (service.CreateProductInput, error) {
	if r.Price == nil {
		return service.CreateProductInput{}, service.ErrInvalidPrice
	}
	return service.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Stock:       r.Stock,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
	}, nil
}

// ProductResource 商品后台资源
func (h *Handler) ProductResource() *handlershared.ResourceHandler[models.Product, ProductRequest] {
	return &handlershared.ResourceHandler[models.Product, ProductRequest]{
		Rules:       handlershared.ProductErrorRules,
		NotFoundKey: "error.product_not_found",
		List: func(c *gin.Context, page, pageSize int) ([]models.Product, int64, error) {
			return h.ProductService.ListAdmin(c.Query("category"), strings.TrimSpace(c.Query("search")), page, pageSize)
		},
		Get: func(c *gin.Context, id string) (*models.Product, error) {
			return h.ProductService.GetAdminByID(id)
		},
		Create: func(c *gin.Context, req ProductRequest) (*models.Product, error) {
			input, err := req.ToServiceInput()
			if err != nil {
				return nil, err
			}
			return h.ProductService.Create(c.Request.Context(), input)
		},
		Update: func(c *gin.Context, id string, req ProductRequest) (*models.Product, error) {
			input, err := req.ToServiceInput()
			if err != nil {
				return nil, err
			}
			return h.ProductService.Update(c.Request.Context(), id, input)
		},
		Delete: func(c *gin.Context, id string) error {
			return h.ProductService.Delete(c.Request.Context(), id)
		},
	}
}

// ====================  文章管理  ====================

// PostRequest 文章创建/更新请求
type PostRequest struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Image       string     `json:"image"`
	Author      string     `json:"author"`
	IsPublished *bool      `json:"is_published"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r PostRequest) toServiceInput() service.CreatePostInput {
	return service.CreatePostInput{
		Slug:        r.Slug,
		Title:       r.Title,
		Content:     r.Content,
		Image:       r.Image,
		Author:      r.Author,
		IsPublished: r.IsPublished,
		PublishedAt: r.PublishedAt,
	}
}

// PostResource 文章后台资源
func (h *Handler) PostResource() *handlershared.ResourceHandler[models.Post, PostRequest] {
	return &handlershared.ResourceHandler[models.Post, PostRequest]{
		Rules:       handlershared.PostErrorRules,
		NotFoundKey: "error.post_not_found",
		List: func(c *gin.Context, page, pageSize int) ([]models.Post, int64, error) {
			return h.PostService.ListAdmin(strings.TrimSpace(c.Query("search")), page, pageSize)
		},
		Get: func(c *gin.Context, id string) (*models.Post, error) {
			return h.PostService.GetAdminByID(id)
		},
		Create: func(c *gin.Context, req PostRequest) (*models.Post, error) {
			return h.PostService.Create(req.toServiceInput())
		},
		Update: func(c *gin.Context, id string, req PostRequest) (*models.Post, error) {
			return h.PostService.Update(id, req.toServiceInput())
		},
		Delete: func(c *gin.Context, id string) error {
			return h.PostService.Delete(id)
		},
	}
}

// ====================  文件上传  ====================

// UploadFile 文件上传
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.upload_file_required", nil)
		return
	}
	scene := c.DefaultPostForm("scene", constants.UploadSceneCommon)

	url, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondMappedError(c, err, handlershared.UploadErrorRules, response.CodeInternal, "error.upload_failed")
		return
	}

	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
