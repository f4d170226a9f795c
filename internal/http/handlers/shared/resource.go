package shared

import (
	"strings"

	"github.com/stationeryhub/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ResourceHandler 通用后台资源处理器，T 为资源类型，I 为创建/更新请求体。
// 未设置的操作不会注册路由。
type ResourceHandler[T any, I any] struct {
	Rules       []MappedError
	NotFoundKey string

	List   func(c *gin.Context, page, pageSize int) ([]T, int64, error)
	Get    func(c *gin.Context, id string) (*T, error)
	Create func(c *gin.Context, input I) (*T, error)
	Update func(c *gin.Context, id string, input I) (*T, error)
	Delete func(c *gin.Context, id string) error
}

// Register 在 group 下注册 path 与 path/:id 路由
func (h *ResourceHandler[T, I]) Register(group gin.IRoutes, path string) {
	path = "/" + strings.Trim(path, "/")
	if h.List != nil {
		group.GET(path, h.HandleList)
	}
	if h.Get != nil {
		group.GET(path+"/:id", h.HandleGet)
	}
	if h.Create != nil {
		group.POST(path, h.HandleCreate)
	}
	if h.Update != nil {
		group.PUT(path+"/:id", h.HandleUpdate)
	}
	if h.Delete != nil {
		group.DELETE(path+"/:id", h.HandleDelete)
	}
}

// HandleList 分页列表
func (h *ResourceHandler[T, I]) HandleList(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	items, total, err := h.List(c, page, pageSize)
	if err != nil {
		h.respondError(c, err, "error.query_failed")
		return
	}
	if items == nil {
		items = make([]T, 0)
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// HandleGet 详情
func (h *ResourceHandler[T, I]) HandleGet(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	item, err := h.Get(c, id)
	if err != nil {
		h.respondError(c, err, "error.query_failed")
		return
	}
	response.Success(c, item)
}

// HandleCreate 创建
func (h *ResourceHandler[T, I]) HandleCreate(c *gin.Context) {
	var input I
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.Create(c, input)
	if err != nil {
		h.respondError(c, err, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// HandleUpdate 更新
func (h *ResourceHandler[T, I]) HandleUpdate(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var input I
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	item, err := h.Update(c, id, input)
	if err != nil {
		h.respondError(c, err, "error.save_failed")
		return
	}
	response.Success(c, item)
}

// HandleDelete 删除
func (h *ResourceHandler[T, I]) HandleDelete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.Delete(c, id); err != nil {
		h.respondError(c, err, "error.delete_failed")
		return
	}
	response.Success(c, nil)
}

func (h *ResourceHandler[T, I]) parseID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		key := h.NotFoundKey
		if key == "" {
			key = "error.not_found"
		}
		RespondError(c, response.CodeNotFound, key, nil)
		return "", false
	}
	return id, true
}

func (h *ResourceHandler[T, I]) respondError(c *gin.Context, err error, fallbackKey string) {
	RespondMappedError(c, err, h.Rules, response.CodeInternal, fallbackKey)
}
