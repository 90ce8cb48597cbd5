package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Conceptual-Machines/alpacka-api/internal/middleware"
	"github.com/Conceptual-Machines/alpacka-api/internal/models"
	"github.com/Conceptual-Machines/alpacka-api/internal/optimizer"
	"github.com/Conceptual-Machines/alpacka-api/internal/prompt"
	"github.com/Conceptual-Machines/alpacka-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeOptimizer struct {
	calls   int
	input   services.OptimizeInput
	result  *models.GenerationResult
	err     error
	history []models.UsageLog
}

func (f *fakeOptimizer) Optimize(_ context.Context, input services.OptimizeInput) (*models.GenerationResult, error) {
	f.calls++
	f.input = input
	return f.result, f.err
}

func (f *fakeOptimizer) History(_ context.Context, _ uint, _ int) ([]models.UsageLog, error) {
	return f.history, nil
}

func pageRouter(svc *fakeOptimizer, user *models.User) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if user != nil {
			middleware.SetCurrentUser(c, user)
		}
		c.Next()
	})
	h := NewWebHandler(svc)
	router.GET("/", h.Home)
	router.POST("/optimize", h.Optimize)
	return router
}

func submit(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/optimize", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var ana = &models.User{ID: 3, Name: "Ana", Email: "ana@example.com", IsActive: true}

func TestHome(t *testing.T) {
	t.Run("signed out shows login", func(t *testing.T) {
		w := httptest.NewRecorder()
		pageRouter(&fakeOptimizer{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "/api/auth/google")
	})

	t.Run("signed in shows optimizer with history", func(t *testing.T) {
		svc := &fakeOptimizer{history: []models.UsageLog{{Original: "idea previa", Optimized: "prompt previo"}}}
		w := httptest.NewRecorder()
		pageRouter(svc, ana).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		body := w.Body.String()
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, body, `action="/optimize"`)
		assert.Contains(t, body, "Ana")
		assert.Contains(t, body, "idea previa")
		assert.Equal(t, 0, svc.calls)
	})
}

func TestOptimizeForm(t *testing.T) {
	svc := &fakeOptimizer{result: &models.GenerationResult{
		Original:    "correo de vacaciones",
		Optimized:   "Actúa como asistente",
		Explanation: "Se añadió un **rol** claro.",
		Timestamp:   time.Now(),
	}}

	w := submit(pageRouter(svc, ana), url.Values{
		"text":         {"correo de vacaciones"},
		"tone":         {"creative"},
		"complexity":   {"Detallado"},
		"target_model": {""},
	})

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, "correo de vacaciones", svc.input.Text)
	assert.Equal(t, uint(3), svc.input.UserID)
	assert.Contains(t, body, "Actúa como asistente")
	assert.Contains(t, body, "<strong>rol</strong>")
	assert.Contains(t, body, `<option value="Creativo" selected>`)
	assert.Contains(t, body, `value="Gemini 2.0 Flash"`)
}

func TestOptimizeFormErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"empty input", prompt.ErrEmptyInput, http.StatusUnprocessableEntity, "Escribe una idea"},
		{
			"missing credential",
			&optimizer.Error{Kind: optimizer.KindMissingCredential, Message: "API Key no encontrada."},
			http.StatusServiceUnavailable,
			"API Key no encontrada.",
		},
		{"transport", errors.Join(optimizer.ErrTransport, errors.New("boom")), http.StatusBadGateway, "Falló la generación"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeOptimizer{err: tt.err}
			w := submit(pageRouter(svc, ana), url.Values{"text": {"  mi idea  "}})

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantText)
			assert.Contains(t, w.Body.String(), "  mi idea  </textarea>")
		})
	}
}

func TestOptimizeFormRequiresUser(t *testing.T) {
	svc := &fakeOptimizer{}
	w := submit(pageRouter(svc, nil), url.Values{"text": {"idea"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Equal(t, 0, svc.calls)
}
