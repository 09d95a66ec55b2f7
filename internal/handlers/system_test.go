package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemHandler_Health(t *testing.T) {
	for _, configured := range []bool{true, false} {
		h := NewSystemHandler(configured)
		rr := httptest.NewRecorder()

		h.Health(rr, httptest.NewRequest(http.MethodGet, PathHealth, nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		expected := `{"status":"healthy","service":"edid-calculator-backend","gemini_configured":false}`
		if configured {
			expected = `{"status":"healthy","service":"edid-calculator-backend","gemini_configured":true}`
		}
		assert.JSONEq(t, expected, rr.Body.String())
	}
}

func TestSystemHandler_Root(t *testing.T) {
	rr := httptest.NewRecorder()

	NewSystemHandler(false).Root(rr, httptest.NewRequest(http.MethodGet, PathRoot, nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"service": "EDID Calculator Backend",
		"status": "running",
		"endpoints": {"health": "/health", "gemini_proxy": "/api/gemini/analyze"}
	}`, rr.Body.String())
}
