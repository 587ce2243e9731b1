package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/01moynul/autoparts-golang/internal/middleware"
	"github.com/01moynul/autoparts-golang/internal/models"
)

//
// --- Cart Handlers (signed-in customers) ---
//

// GetCart is the handler for GET /api/cart
func (h *Handlers) GetCart(c *gin.Context) {
	cart, err := h.Store.GetCart(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// AddToCart is the handler for POST /api/cart/items.
// Adding a product already in the cart increases its quantity.
func (h *Handlers) AddToCart(c *gin.Context) {
	var input models.AddToCartInput
	if !bindJSON(c, &input) {
		return
	}
	userID := middleware.CurrentUser(c).ID
	if err := h.Store.AddToCart(c.Request.Context(), userID, input); err != nil {
		respondError(c, err)
		return
	}
	cart, err := h.Store.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item added to cart", "cart": cart})
}

// UpdateCartItem is the handler for PUT /api/cart/items/:productId
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	var input models.UpdateCartItemInput
	if !bindJSON(c, &input) {
		return
	}
	userID := middleware.CurrentUser(c).ID
	if err := h.Store.SetCartQuantity(c.Request.Context(), userID, productID, *input.Quantity); err != nil {
		respondError(c, err)
		return
	}
	cart, err := h.Store.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
}

// DeleteCartItem is the handler for DELETE /api/cart/items/:productId
func (h *Handlers) DeleteCartItem(c *gin.Context) {
	productID, ok := paramID(c, "productId")
	if !ok {
		return
	}
	if err := h.Store.RemoveFromCart(c.Request.Context(), middleware.CurrentUser(c).ID, productID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
}
