package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/middleware"
	"github.com/01moynul/autoparts-golang/internal/models"
)

// GetReviews is the handler for GET /api/reviews[?productId=]
func (h *Handlers) GetReviews(c *gin.Context) {
	productID, ok := queryID(c, "productId")
	if !ok {
		return
	}
	reviews, err := h.Store.ListReviews(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// CreateReview is the handler for POST /api/reviews. One review per user and product.
func (h *Handlers) CreateReview(c *gin.Context) {
	var input models.ReviewInput
	if !bindJSON(c, &input) {
		return
	}
	review, err := h.Store.CreateReview(c.Request.Context(), middleware.CurrentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review added", "review": review})
}

// DeleteReview is the handler for DELETE /api/reviews/:id (author or admin)
func (h *Handlers) DeleteReview(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Store.DeleteReview(c.Request.Context(), id, middleware.CurrentUser(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
