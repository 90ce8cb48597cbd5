package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/alpacka-api/internal/config"
	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// UserUpserter persists users coming back from the identity provider
type UserUpserter interface {
	UpsertOAuthUser(profile services.OAuthProfile) (*models.User, bool, error)
}

type OAuthHandler struct {
	users        UserUpserter
	cfg          *config.Config
	beginAuth    func(w http.ResponseWriter, r *http.Request)
	completeAuth func(w http.ResponseWriter, r *http.Request) (goth.User, error)
}

// NewOAuthHandler configures the gothic session store and the Google provider
func NewOAuthHandler(users UserUpserter, cfg *config.Config) *OAuthHandler {
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options.HttpOnly = true
	store.Options.Secure = cfg.IsProduction()
	store.Options.SameSite = http.SameSiteLaxMode
	gothic.Store = store

	goth.UseProviders(
		google.New(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.BaseURL+"/api/auth/google/callback",
			"email", "profile",
		),
	)

	return &OAuthHandler{
		users:        users,
		cfg:          cfg,
		beginAuth:    gothic.BeginAuthHandler,
		completeAuth: gothic.CompleteUserAuth,
	}
}

// withProvider validates the :provider param and exposes it to gothic
func withProvider(c *gin.Context) bool {
	provider := c.Param("provider")
	if provider != providerGoogle {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported provider"})
		return false
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()
	return true
}

// BeginAuth redirects user to OAuth provider login
func (h *OAuthHandler) BeginAuth(c *gin.Context) {
	if !withProvider(c) {
		return
	}
	h.beginAuth(c.Writer, c.Request)
}

// Callback completes sign-in, upserts the user and sets the session cookie
func (h *OAuthHandler) Callback(c *gin.Context) {
	if !withProvider(c) {
		return
	}

	gothUser, err := h.completeAuth(c.Writer, c.Request)
	if err != nil {
		logger.Warn("OAuth authentication failed", logger.Fields{"error": err.Error()})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "OAuth authentication failed"})
		return
	}

	user, isNew, err := h.users.UpsertOAuthUser(services.OAuthProfile{
		Provider:       gothUser.Provider,
		ProviderUserID: gothUser.UserID,
		Email:          gothUser.Email,
		Name:           displayName(gothUser),
		AvatarURL:      gothUser.AvatarURL,
	})
	if err != nil {
		logger.Error("Failed to upsert OAuth user", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if err := setSessionCookie(c, h.cfg, user); err != nil {
		logger.Error("Failed to issue session token", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	logger.Info("User signed in", logger.Fields{"user_id": user.ID, "is_new": isNew})
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

func displayName(user goth.User) string {
	if user.Name != "" {
		return user.Name
	}
	if user.NickName != "" {
		return user.NickName
	}
	return user.Email
}
