package public

import (
	"errors"
	"strings"

	"github.com/stationeryhub/internal/constants"
	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/models"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
)

// priceRangeOption 价格筛选选项
type priceRangeOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var priceRangeOptions = []priceRangeOption{
	{ID: constants.PriceRangeAll, Label: "All Prices"},
	{ID: constants.PriceRangeUnder10, Label: "Under $10"},
	{ID: constants.PriceRange10To25, Label: "$10 - $25"},
	{ID: constants.PriceRange25To50, Label: "$25 - $50"},
	{ID: constants.PriceRangeOver50, Label: "Over $50"},
}

// GetProducts 获取商品列表（支持分类、搜索、价格区间筛选）
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	query := service.CatalogQuery{
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		PriceRange: strings.TrimSpace(c.Query("price_range")),
		Page:       page,
		PageSize:   pageSize,
	}

	products, total, err := h.ProductService.ListPublic(c.Request.Context(), query)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			respondError(c, response.CodeBadRequest, "error.price_range_invalid", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	if products == nil {
		products = make([]models.Product, 0)
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.ProductService.GetPublicByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, product)
}

// GetCategories 获取分类列表（首项为 All）
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.ProductService.Categories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	names := make([]string, 0, len(categories)+1)
	names = append(names, constants.CategoryAll)
	for _, category := range categories {
		names = append(names, category.Name)
	}
	response.Success(c, names)
}

// GetPriceRanges 获取价格区间选项
func (h *Handler) GetPriceRanges(c *gin.Context) {
	response.Success(c, priceRangeOptions)
}

// GetPosts 获取已发布文章列表
func (h *Handler) GetPosts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	posts, total, err := h.PostService.ListPublic(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	views := make([]postView, 0, len(posts))
	for _, post := range posts {
		views = append(views, newPostView(post))
	}
	response.SuccessWithPage(c, views, response.NewPagination(page, pageSize, total))
}

// GetPost 按 slug 获取文章
func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.PostService.GetPublicBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.post_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	response.Success(c, newPostView(*post))
}

// postView 前台文章，附带 YYYY-MM-DD 形式的展示日期
type postView struct {
	models.Post
	Date string `json:"date"`
}

func newPostView(post models.Post) postView {
	return postView{Post: post, Date: post.Date().Format("2006-01-02")}
}

// GetDeliveryAreas 获取可选配送区域
func (h *Handler) GetDeliveryAreas(c *gin.Context) {
	areas, err := h.OrderService.DeliveryAreas()
	if err != nil {
		respondError(c, response.CodeInternal, "error.query_failed", err)
		return
	}
	if areas == nil {
		areas = make([]models.DeliveryArea, 0)
	}
	response.Success(c, areas)
}
