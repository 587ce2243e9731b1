package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/middleware"
	"github.com/01moynul/autoparts-golang/internal/models"
)

//
// --- Checkout ---
//

// Checkout is the handler for POST /api/orders.
// It turns the caller's cart into a pending order and empties the cart.
func (h *Handlers) Checkout(c *gin.Context) {
	var input models.CheckoutInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := h.Store.Checkout(c.Request.Context(), middleware.CurrentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordOrder(order.Status)
	}
	logger.FromGin(c).Info("order placed",
		zap.Uint("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
		zap.Int("items", len(order.Items)))
	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

//
// --- Order Retrieval Handlers ---
//

// GetMyOrders is the handler for GET /api/orders/my
func (h *Handlers) GetMyOrders(c *gin.Context) {
	orders, err := h.Store.ListUserOrders(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrderDetails is the handler for GET /api/orders/:id.
// Customers only see their own orders; admins see all.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	order, err := h.Store.GetOrder(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
