package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/services"
	"github.com/gin-gonic/gin"
)

// Optimizer is the optimization service as seen by HTTP handlers
type Optimizer interface {
	Optimize(ctx context.Context, input services.OptimizeInput) (*models.GenerationResult, error)
	History(ctx context.Context, userID uint, limit int) ([]models.UsageLog, error)
}

type OptimizationHandler struct {
	service Optimizer
}

func NewOptimizationHandler(service Optimizer) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

type OptimizeRequest struct {
	Text        string `json:"text"`
	Tone        string `json:"tone"`
	Complexity  string `json:"complexity"`
	TargetModel string `json:"target_model"`
}

type OptimizeResponse struct {
	Result    *models.GenerationResult `json:"result"`
	RequestID string                   `json:"request_id"`
}

// HistoryItem is one past optimization
type HistoryItem struct {
	ID          uint      `json:"id"`
	Original    string    `json:"original"`
	Optimized   string    `json:"optimized"`
	Explanation string    `json:"explanation"`
	Tone        string    `json:"tone"`
	Complexity  string    `json:"complexity"`
	TargetModel string    `json:"target_model"`
	CreatedAt   time.Time `json:"created_at"`
}

// Create runs one optimization for the signed-in user
func (h *OptimizationHandler) Create(c *gin.Context) {
	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID, _ := middleware.GetCurrentUserID(c)
	requestID := c.GetString("request_id")

	result, err := h.service.Optimize(c.Request.Context(), services.OptimizeInput{
		Text:        req.Text,
		Tone:        req.Tone,
		Complexity:  req.Complexity,
		TargetModel: req.TargetModel,
		UserID:      userID,
		RequestID:   requestID,
	})
	if err != nil {
		writeOptimizationError(c, err)
		return
	}

	c.JSON(http.StatusOK, OptimizeResponse{Result: result, RequestID: requestID})
}

// List returns the signed-in user's recent optimizations
func (h *OptimizationHandler) List(c *gin.Context) {
	userID, exists := middleware.GetCurrentUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	limit := defaultHistoryPageSize
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(parsed, maxHistoryPageSize)
	}

	logs, err := h.service.History(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to load optimization history", err, logger.WithContext(c))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}

	items := make([]HistoryItem, 0, len(logs))
	for _, entry := range logs {
		items = append(items, HistoryItem{
			ID:          entry.ID,
			Original:    entry.Original,
			Optimized:   entry.Optimized,
			Explanation: entry.Explanation,
			Tone:        entry.Tone,
			Complexity:  entry.Complexity,
			TargetModel: entry.TargetModel,
			CreatedAt:   entry.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"optimizations": items})
}

func writeOptimizationError(c *gin.Context, err error) {
	failure := ClassifyOptimizationError(err)

	body := gin.H{
		"error":      failure.Code,
		"code":       failure.Code,
		"message":    failure.Message,
		"request_id": c.GetString("request_id"),
	}
	if failure.Kind != "" {
		body["kind"] = failure.Kind
	}

	if failure.Status >= http.StatusInternalServerError {
		fields := logger.WithContext(c)
		fields["error_kind"] = failure.Kind
		logger.Error("Optimization failed", err, fields)
	}

	c.JSON(failure.Status, body)
}
