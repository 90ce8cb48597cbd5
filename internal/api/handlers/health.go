package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CredentialChecker reports whether the generation endpoint is configured
type CredentialChecker interface {
	HasCredential() bool
}

type HealthHandler struct {
	db         *gorm.DB
	generation CredentialChecker
	model      string
}

func NewHealthHandler(db *gorm.DB, generation CredentialChecker, model string) *HealthHandler {
	return &HealthHandler{db: db, generation: generation, model: model}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.db != nil {
		dbStatus = "ok"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "unreachable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"generation": gin.H{
			"configured": h.generation.HasCredential(),
			"model":      h.model,
		},
		"database": dbStatus,
	})
}
