package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeadmin/backend/internal/infrastructure/cache"
)

func TestSystemHandler_Health(t *testing.T) {
	pageCache := cache.NewMemoryPageCache()
	t.Cleanup(func() { _ = pageCache.Close() })

	h := NewSystemHandler("storeadmin-backend", "1.0.0", pageCache)
	engine := gin.New()
	engine.GET("/health", h.Health)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    HealthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "ok", body.Data.Status)
	assert.Equal(t, "storeadmin-backend", body.Data.Name)
	assert.NotEmpty(t, body.Data.GoVersion)
}

func TestSystemHandler_Ready(t *testing.T) {
	pageCache := cache.NewMemoryPageCache()
	t.Cleanup(func() { _ = pageCache.Close() })

	h := NewSystemHandler("storeadmin-backend", "1.0.0", pageCache)
	engine := gin.New()
	engine.GET("/ready", h.Ready)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data ReadyResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Data.Status)
	assert.Contains(t, body.Data.Checks["cache"], "memory")
}
