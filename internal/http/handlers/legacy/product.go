package legacy

import (
	"net/http"
	"strings"

	handlershared "github.com/stationeryhub/internal/http/handlers/shared"
	"github.com/stationeryhub/internal/http/response"
	"github.com/stationeryhub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 旧版商品请求体
type ProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       string           `json:"image"`
	Category    string           `json:"category"`
	Stock       *int             `json:"stock"`
}

func (r ProductRequest) toServiceInput() (service.CreateProductInput, error) {
	if r.Price == nil {
		return service.CreateProductInput{}, service.ErrInvalidPrice
	}
	return service.CreateProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Image:       storedImage(r.Image),
		Category:    r.Category,
		Stock:       r.Stock,
	}, nil
}

// ListProducts GET /product/get
func (h *Handler) ListProducts(c *gin.Context) {
	products, _, err := h.ProductService.ListPublic(c.Request.Context(), service.CatalogQuery{
		Category:   strings.TrimSpace(c.Query("category")),
		Search:     strings.TrimSpace(c.Query("search")),
		PriceRange: strings.TrimSpace(c.Query("price_range")),
	})
	if err != nil {
		respondMappedError(c, err, []handlershared.MappedError{
			{Target: service.ErrInvalidPrice, Code: response.CodeBadRequest, Key: "error.price_range_invalid"},
		}, "error.query_failed")
		return
	}
	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, NewProductView(p))
	}
	response.Legacy(c, http.StatusOK, gin.H{"products": views})
}

// AddProduct POST /product/add
func (h *Handler) AddProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	input, err := req.toServiceInput()
	if err == nil {
		product, createErr := h.ProductService.Create(c.Request.Context(), input)
		if createErr == nil {
			response.Legacy(c, http.StatusCreated, gin.H{
				"message": "Product added successfully",
				"product": NewProductView(*product),
			})
			return
		}
		err = createErr
	}
	respondMappedError(c, err, handlershared.ProductErrorRules, "error.save_failed")
}

// UpdateProduct PUT /product/update/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		return
	}
	input, err := req.toServiceInput()
	if err == nil {
		product, updateErr := h.ProductService.Update(c.Request.Context(), c.Param("id"), input)
		if updateErr == nil {
			response.Legacy(c, http.StatusOK, gin.H{
				"message": "Product updated successfully",
				"product": NewProductView(*product),
			})
			return
		}
		err = updateErr
	}
	respondMappedError(c, err, handlershared.ProductErrorRules, "error.save_failed")
}

// DeleteProduct DELETE /product/delete/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.ProductService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondMappedError(c, err, handlershared.ProductErrorRules, "error.delete_failed")
		return
	}
	response.Legacy(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
