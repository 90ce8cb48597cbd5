package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	bearerPrefix = "Bearer"

	// AccessTokenCookie holds the session JWT for browser users
	AccessTokenCookie = "access_token"

	contextKeyUser   = "user"
	contextKeyUserID = "user_id"
)

// UserStore loads users referenced by tokens
type UserStore interface {
	FindByID(id uint) (*models.User, error)
}

type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for the user
func IssueToken(user *models.User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt secret not configured")
	}

	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry of a token
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// tokenFromRequest reads the bearer header, falling back to the session cookie
func tokenFromRequest(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == bearerPrefix {
			return parts[1]
		}
	}

	tokenString, _ := c.Cookie(AccessTokenCookie)
	return tokenString
}

// JWTAuth middleware validates JWT tokens and attaches user to context
func JWTAuth(users UserStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is disabled"})
			c.Abort()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// OptionalJWTAuth is like JWTAuth but never aborts. Used by the HTML pages.
func OptionalJWTAuth(users UserStore, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			c.Next()
			return
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		SetCurrentUser(c, user)
		c.Next()
	}
}

// SetCurrentUser attaches the user to the request context
func SetCurrentUser(c *gin.Context, user *models.User) {
	c.Set(contextKeyUser, *user)
	c.Set(contextKeyUserID, user.ID)
}

// GetCurrentUser retrieves the user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	userVal, exists := c.Get(contextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := userVal.(models.User)
	return &user, ok
}

// GetCurrentUserID retrieves the user ID from context
func GetCurrentUserID(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get(contextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := userIDVal.(uint)
	return userID, ok
}
