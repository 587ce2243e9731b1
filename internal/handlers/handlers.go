package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/apperrors"
	"github.com/01moynul/autoparts-golang/internal/auth"
	"github.com/01moynul/autoparts-golang/internal/config"
	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/metrics"
	"github.com/01moynul/autoparts-golang/internal/store"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Store   *store.Store
	Tokens  *auth.Tokens
	Metrics *metrics.Metrics
	Config  *config.Config
}

func New(s *store.Store, tokens *auth.Tokens, m *metrics.Metrics, cfg *config.Config) *Handlers {
	return &Handlers{Store: s, Tokens: tokens, Metrics: m, Config: cfg}
}

// respondError writes err as {"error": ...}. Errors below 500 carry their
// own message; anything else is logged and hidden behind a generic one.
func respondError(c *gin.Context, err error) {
	status := apperrors.StatusCode(err)
	if apperrors.Public(err) {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	logger.FromGin(c).Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternal.Error()})
}

// bindJSON binds and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
		return false
	}
	return true
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// queryID parses an optional positive integer query parameter; absent is 0.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
