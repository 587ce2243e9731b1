package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/models"
)

// --- Category Handlers ---

// GetAllCategories (Public - Returns Tree Structure)
func (h *Handlers) GetAllCategories(c *gin.Context) {
	tree, err := h.Store.CategoryTree(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": tree})
}

func (h *Handlers) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, err := h.Store.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": cat})
}

// CreateCategory (Admin Only)
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	cat, err := h.Store.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	// Return the full object so the UI can update the tree immediately
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": cat})
}

// UpdateCategory (Admin Only)
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	cat, err := h.Store.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": cat})
}

// DeleteCategory (Admin Only). Refused while products or subcategories use it.
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}

// --- Manufacturer Handlers ---

// GetAllManufacturers (Public)
func (h *Handlers) GetAllManufacturers(c *gin.Context) {
	list, err := h.Store.ListManufacturers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturers": list})
}

func (h *Handlers) GetManufacturer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	m, err := h.Store.GetManufacturer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manufacturer": m})
}

// CreateManufacturer (Admin Only)
func (h *Handlers) CreateManufacturer(c *gin.Context) {
	var input models.ManufacturerInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.CreateManufacturer(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Manufacturer created", "manufacturer": m})
}

// UpdateManufacturer (Admin Only)
func (h *Handlers) UpdateManufacturer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.ManufacturerInput
	if !bindJSON(c, &input) {
		return
	}
	m, err := h.Store.UpdateManufacturer(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manufacturer updated", "manufacturer": m})
}

// DeleteManufacturer (Admin Only)
func (h *Handlers) DeleteManufacturer(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteManufacturer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Manufacturer deleted"})
}
