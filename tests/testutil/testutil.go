// Package testutil provides shared helpers for gateway tests: a fake
// upstream ERP server and HTTP assertion utilities.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Envelope mirrors the gateway's response wrapper for assertions.
type Envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   *EnvelopeError    `json:"error"`
	Meta    map[string]any    `json:"meta"`
}

// EnvelopeError is the error block of a failed gateway response.
type EnvelopeError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Details   []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

// PerformRequest executes a GET request against the engine and returns the
// recorded response.
func PerformRequest(engine *gin.Engine, path string, headers ...map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}
	engine.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope unmarshals a recorded response body into an Envelope.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// RequireErrorCode asserts a failed envelope with the given status and code.
func RequireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()

	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
	return env
}
