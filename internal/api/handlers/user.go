package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the signed-in user's identity
func GetProfile(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user.Identity()})
}
