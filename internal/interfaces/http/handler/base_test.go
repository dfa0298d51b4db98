package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeadmin/backend/internal/domain/shared"
	"github.com/storeadmin/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performError(t *testing.T, err error) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(RequestIDKey, "req-test")

	h.HandleError(c, err)

	var body dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestBaseHandler_HandleError_SentinelMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", fmt.Errorf("%w: /api/orders/9", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"unavailable", fmt.Errorf("%w: dial refused", shared.ErrUpstreamUnavailable), http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable},
		{"timeout", fmt.Errorf("%w: deadline", shared.ErrUpstreamTimeout), http.StatusGatewayTimeout, dto.ErrCodeUpstreamTimeout},
		{"rejected", fmt.Errorf("%w: HTTP 500", shared.ErrUpstreamRejected), http.StatusBadGateway, dto.ErrCodeUpstreamRejected},
		{"payload", fmt.Errorf("%w: bad json", shared.ErrUpstreamPayload), http.StatusBadGateway, dto.ErrCodeUpstreamPayload},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeValidation},
		{"plain error", fmt.Errorf("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := performError(t, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "req-test", body.Error.RequestID)
		})
	}
}

func TestBaseHandler_HandleError_NilError(t *testing.T) {
	h := &BaseHandler{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.HandleError(c, nil)
	assert.Empty(t, w.Body.Bytes())
}

func TestUpstreamMeta_Nil(t *testing.T) {
	assert.Nil(t, upstreamMeta(nil))
}
