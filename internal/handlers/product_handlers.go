package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/compat"
	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/models"
)

//
// --- Public Product Handlers ---
//

// productQuery holds the storefront list query string.
type productQuery struct {
	Query           string `form:"q"`
	CategoryID      uint   `form:"categoryId"`
	ManufacturerID  uint   `form:"manufacturerId"`
	MinPrice        string `form:"minPrice"`
	MaxPrice        string `form:"maxPrice"`
	IncludeVariants bool   `form:"includeVariants"`
	Page            int    `form:"page" binding:"gte=0"`
	Limit           int    `form:"limit" binding:"gte=0,lte=100"`
}

func parsePrice(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListProducts is the handler for GET /api/products
// Supports q, categoryId (with subcategories), manufacturerId, price range,
// includeVariants, a vehicle (makeId..engineId) and page/limit.
func (h *Handlers) ListProducts(c *gin.Context) {
	// 1. --- Bind query ---
	var q productQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return
	}
	var vehicle compat.Vehicle
	if err := c.ShouldBindQuery(&vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle filter"})
		return
	}

	// 2. --- Build filter ---
	filter := models.ProductFilter{
		Query:           q.Query,
		CategoryID:      q.CategoryID,
		ManufacturerID:  q.ManufacturerID,
		IncludeVariants: q.IncludeVariants,
		Page:            q.Page,
		Limit:           q.Limit,
	}
	var err error
	if filter.MinPrice, err = parsePrice(q.MinPrice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPrice"})
		return
	}
	if filter.MaxPrice, err = parsePrice(q.MaxPrice); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPrice"})
		return
	}

	// 3. --- Query ---
	page, err := h.Store.ListProducts(c.Request.Context(), filter, vehicle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProduct is the handler for GET /api/products/:id (id or slug)
func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.Store.GetProductDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// ProductFits is the handler for GET /api/products/:id/fits?makeId=...
func (h *Handlers) ProductFits(c *gin.Context) {
	var vehicle compat.Vehicle
	if err := c.ShouldBindQuery(&vehicle); err != nil || vehicle.MakeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "makeId is required"})
		return
	}
	fits, err := h.Store.ProductFits(c.Request.Context(), c.Param("id"), vehicle)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fits": fits})
}

//
// --- Admin Product Handlers ---
//

// CreateProduct is the handler for POST /api/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.Store.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.FromGin(c).Info("product created", zap.Uint("product_id", p.ID), zap.String("slug", p.Slug))
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": p})
}

// UpdateProduct is the handler for PUT /api/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.ProductInput
	if !bindJSON(c, &input) {
		return
	}
	p, err := h.Store.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": p})
}

// DeleteProduct is the handler for DELETE /api/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}
