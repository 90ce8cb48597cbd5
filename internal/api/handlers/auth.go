package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Logout clears the session cookie and the gothic provider session
func (h *AuthHandler) Logout(c *gin.Context) {
	if gothic.Store != nil {
		// Nothing to clear is not an error
		_ = gothic.Logout(c.Writer, c.Request)
	}

	// Clear with both secure flags, cookies set over plain HTTP locally have secure=false
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cfg.CookieDomain, false, true)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cfg.CookieDomain, true, true)

	if c.GetHeader("Accept") == "application/json" || c.ContentType() == "application/json" {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// setSessionCookie issues a JWT for the user and stores it in an HTTP-only cookie
func setSessionCookie(c *gin.Context, cfg *config.Config, user *models.User) error {
	token, err := middleware.IssueToken(user, cfg.JWTSecret, sessionTokenDuration)
	if err != nil {
		return err
	}

	isHTTPS := c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == forwardedProtoHTTPS
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, token, int(sessionTokenDuration.Seconds()), "/", cfg.CookieDomain, isHTTPS, true)
	return nil
}
