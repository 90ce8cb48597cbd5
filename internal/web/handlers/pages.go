package handlers

import (
	"net/http"

	apihandlers "github.com/Conceptual-Machines/alpacka-api/internal/api/handlers"
	"github.com/Conceptual-Machines/alpacka-api/internal/logger"
	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/services"
	"github.com/Conceptual-Machines/alpacka-api/internal/web/templates"
	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

const recentHistorySize = 5

type WebHandler struct {
	service apihandlers.Optimizer
}

func NewWebHandler(service apihandlers.Optimizer) *WebHandler {
	return &WebHandler{service: service}
}

// Home renders the optimizer for signed-in users and the login page otherwise
func (h *WebHandler) Home(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		render(c, http.StatusOK, templates.LoginPage())
		return
	}

	data := templates.OptimizerPageData{
		User:    user.Identity(),
		Form:    templates.DefaultForm(),
		History: h.history(c, user.ID),
	}
	render(c, http.StatusOK, templates.OptimizerPage(data))
}

// Optimize handles the optimizer form and renders the page with the outcome
func (h *WebHandler) Optimize(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	form := templates.FormValues{
		Text:        c.PostForm("text"),
		Tone:        models.Tone(c.PostForm("tone")),
		Complexity:  models.Complexity(c.PostForm("complexity")),
		TargetModel: c.PostForm("target_model"),
	}

	result, err := h.service.Optimize(c.Request.Context(), services.OptimizeInput{
		Text:        form.Text,
		Tone:        string(form.Tone),
		Complexity:  string(form.Complexity),
		TargetModel: form.TargetModel,
		UserID:      user.ID,
		RequestID:   c.GetString("request_id"),
	})

	data := templates.OptimizerPageData{User: user.Identity(), Form: normalizeForm(form)}
	status := http.StatusOK

	if err != nil {
		failure := apihandlers.ClassifyOptimizationError(err)
		if failure.Status >= http.StatusInternalServerError {
			fields := logger.WithContext(c)
			fields["error_kind"] = failure.Kind
			logger.Error("Optimization failed", err, fields)
		}
		data.Error = failure.Message
		status = failure.Status
	} else {
		data.Result = result
		explanation, mdErr := templates.RenderMarkdown(result.Explanation)
		if mdErr != nil {
			logger.Warn("Failed to render explanation markdown", logger.Fields{"error": mdErr.Error()})
			explanation = templ.EscapeString(result.Explanation)
		}
		data.ExplanationHTML = explanation
	}

	data.History = h.history(c, user.ID)
	render(c, status, templates.OptimizerPage(data))
}

func (h *WebHandler) history(c *gin.Context, userID uint) []templates.HistoryEntry {
	logs, err := h.service.History(c.Request.Context(), userID, recentHistorySize)
	if err != nil {
		logger.Warn("Failed to load history for page", logger.Fields{"user_id": userID, "error": err.Error()})
		return nil
	}

	entries := make([]templates.HistoryEntry, 0, len(logs))
	for _, entry := range logs {
		entries = append(entries, templates.HistoryEntry{
			Original:  entry.Original,
			Optimized: entry.Optimized,
			CreatedAt: entry.CreatedAt,
		})
	}
	return entries
}

// normalizeForm maps submitted option values onto their display labels so the selects keep the choice
func normalizeForm(form templates.FormValues) templates.FormValues {
	if tone, err := models.ParseTone(string(form.Tone)); err == nil {
		form.Tone = tone
	}
	if complexity, err := models.ParseComplexity(string(form.Complexity)); err == nil {
		form.Complexity = complexity
	}
	if form.TargetModel == "" {
		form.TargetModel = models.DefaultTargetModel
	}
	return form
}

func render(c *gin.Context, status int, component templ.Component) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render template"})
	}
}
