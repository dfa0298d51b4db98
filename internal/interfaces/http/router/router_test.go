package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubRegistrar struct {
	path string
}

func (s *stubRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(s.path, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func TestRouter_Setup(t *testing.T) {
	engine := gin.New()

	NewRouter(engine).
		Register(&stubRegistrar{path: "/orders"}).
		Register(&stubRegistrar{path: "/stores"}).
		Setup()

	for _, path := range []string{"/api/v1/orders", "/api/v1/stores"} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_CustomVersion(t *testing.T) {
	engine := gin.New()

	NewRouter(engine, WithAPIVersion("v2")).
		Register(&stubRegistrar{path: "/activity"}).
		Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/activity", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/activity", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
