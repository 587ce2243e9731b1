package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/models"
)

// GetCompatibilities is the handler for GET /api/compatibilities[?productId=]
func (h *Handlers) GetCompatibilities(c *gin.Context) {
	productID, ok := queryID(c, "productId")
	if !ok {
		return
	}
	rows, err := h.Store.ListCompatibilities(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compatibilities": rows})
}

// GetCompatibilityTree is the handler for
// GET /api/compatibilities/hierarchical?productId=
func (h *Handlers) GetCompatibilityTree(c *gin.Context) {
	productID, ok := queryID(c, "productId")
	if !ok {
		return
	}
	if productID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	tree, err := h.Store.CompatibilityTree(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if tree == nil {
		c.JSON(http.StatusOK, gin.H{"makes": []any{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"makes": tree})
}

func (h *Handlers) GetCompatibility(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	row, err := h.Store.GetCompatibility(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"compatibility": row})
}

// CreateCompatibility is the handler for POST /api/compatibilities
func (h *Handlers) CreateCompatibility(c *gin.Context) {
	var input models.CompatibilityInput
	if !bindJSON(c, &input) {
		return
	}
	row, err := h.Store.CreateCompatibility(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Compatibility created", "compatibility": row})
}

// UpdateCompatibility is the handler for PUT /api/compatibilities/:id
func (h *Handlers) UpdateCompatibility(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CompatibilityInput
	if !bindJSON(c, &input) {
		return
	}
	row, err := h.Store.UpdateCompatibility(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Compatibility updated", "compatibility": row})
}

// DeleteCompatibility is the handler for DELETE /api/compatibilities/:id
func (h *Handlers) DeleteCompatibility(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCompatibility(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Compatibility deleted"})
}
