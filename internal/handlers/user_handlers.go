package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/01moynul/autoparts-golang/internal/auth"
	"github.com/01moynul/autoparts-golang/internal/logger"
	"github.com/01moynul/autoparts-golang/internal/middleware"
	"github.com/01moynul/autoparts-golang/internal/models"
)

// setAuthCookie stores the token as an HttpOnly cookie. maxAge < 0 clears it.
func (h *Handlers) setAuthCookie(c *gin.Context, token string, maxAge int) {
	secure := false
	if h.Config != nil {
		secure = h.Config.Server.CookieSecure
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", secure, true)
}

// --- User Registration ---

// Register is the handler for POST /api/auth/register.
// New accounts always get the customer role.
func (h *Handlers) Register(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input models.RegisterInput
	if !bindJSON(c, &input) {
		return
	}

	// 2. --- Save ---
	user, err := h.Store.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	// 3. --- Respond ---
	// Gin respects the 'json:"-"' tag on the password hash.
	logger.FromGin(c).Info("user registered", zap.Uint("user_id", user.ID))
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user,
	})
}

// --- Login / Logout ---

// Login is the handler for POST /api/auth/login.
// The token is both set as a cookie and returned in the body.
func (h *Handlers) Login(c *gin.Context) {
	var input models.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	// 1. --- Check credentials ---
	user, err := h.Store.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// 2. --- Issue token ---
	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	h.setAuthCookie(c, token, int(h.Tokens.TTL().Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Logout clears the auth cookie. Tokens are stateless so nothing else is revoked.
func (h *Handlers) Logout(c *gin.Context) {
	h.setAuthCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// --- Profile ---

// GetProfile is the handler for GET /api/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": middleware.CurrentUser(c)})
}

// UpdateProfile is the handler for PUT /api/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var input models.ProfileInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.Store.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "user": user})
}
