package middleware

import (
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	authmw "github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AnonymousUser is attached to every request when AUTH_MODE=none
var AnonymousUser = models.User{
	ID:       models.AnonymousUserID,
	Name:     "Invitado",
	Email:    "anonymous@localhost",
	IsActive: true,
}

// NoAuth is a pass-through middleware for local development.
// It allows all requests and runs them as the anonymous user.
func NoAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := AnonymousUser
		authmw.SetCurrentUser(c, &user)
		c.Next()
	}
}
