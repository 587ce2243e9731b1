package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/models"
)

//
// --- Admin: Order Management Handlers ---
//

// GetAllOrders is the handler for GET /api/admin/orders[?status=]
func (h *Handlers) GetAllOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !models.ValidOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}
	orders, err := h.Store.ListOrders(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// UpdateOrderStatus is the handler for PATCH /api/admin/orders/:id/status.
// Cancelling an order returns its items to stock.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input models.OrderStatusInput
	if !bindJSON(c, &input) {
		return
	}
	order, err := h.Store.UpdateOrderStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.RecordOrder(order.Status)
	}
	logger.FromGin(c).Info("order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("status", order.Status))
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated", "order": order})
}
