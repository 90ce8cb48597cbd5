package logger

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   string
	}{
		{name: "empty", fields: nil, want: ""},
		{name: "sorted keys", fields: Fields{"b": 2, "a": "x"}, want: "{a=x, b=2}"},
		{name: "float", fields: Fields{"cost": 0.1234}, want: "{cost=0.12}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFields(tt.fields))
		})
	}
}

func TestLevels(t *testing.T) {
	buf := captureLog(t)

	Info("hello", Fields{"k": "v"})
	Warn("careful", nil)
	Debug("details", nil)
	Error("failed", errors.New("boom"), Fields{"request_id": "r1"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] hello {k=v}")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "[DEBUG] details")
	assert.Contains(t, out, "[ERROR] failed: boom {request_id=r1}")
}

func TestLogOptimization(t *testing.T) {
	buf := captureLog(t)

	LogOptimization("gemini-2.5-flash-lite", "success", 1500*time.Millisecond, 42, 300, nil)
	LogOptimization("gemini-2.5-flash-lite", "malformed_response", time.Second, 10, 0, Fields{"request_id": "r2"})

	out := buf.String()
	assert.Contains(t, out, "[INFO] Optimization completed")
	assert.Contains(t, out, "duration_ms=1500")
	assert.Contains(t, out, "input_length=42")
	assert.Contains(t, out, "[WARN] Optimization failed")
	assert.Contains(t, out, "outcome=malformed_response")
}

func TestWithContextAndLogAPIRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLog(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/options", nil)
	c.Set("request_id", "req-123")
	c.Set("user_id", "u-1")

	fields := WithContext(c)
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "u-1", fields["user_id"])
	assert.Equal(t, "/api/v1/options", fields["path"])

	LogAPIRequest(c, 25*time.Millisecond, http.StatusOK, nil)
	assert.Contains(t, buf.String(), "status_code=200")
}
