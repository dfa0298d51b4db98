package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// FakeUpstream is an in-process stand-in for the upstream ERP API. Responses
// are registered per path; unregistered paths answer 404 with an ERP-style
// error envelope. Hits are counted per path so cache behaviour can be
// asserted.
type FakeUpstream struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]upstreamResponse
	hits      map[string]int
}

type upstreamResponse struct {
	status int
	body   string
}

// NewFakeUpstream starts a fake upstream server. It is closed automatically
// when the test finishes.
func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()

	u := &FakeUpstream{
		responses: make(map[string]upstreamResponse),
		hits:      make(map[string]int),
	}
	u.server = httptest.NewServer(http.HandlerFunc(u.handle))
	t.Cleanup(u.server.Close)
	return u
}

func (u *FakeUpstream) handle(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	u.hits[r.URL.Path]++
	resp, ok := u.responses[r.URL.Path]
	u.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success": false, "error": {"code": "NOT_FOUND", "message": "resource not found"}}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

// Respond registers a 200 response body for a path.
func (u *FakeUpstream) Respond(path, body string) {
	u.RespondStatus(path, http.StatusOK, body)
}

// RespondStatus registers a response with an explicit status code.
func (u *FakeUpstream) RespondStatus(path string, status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.responses[path] = upstreamResponse{status: status, body: body}
}

// Hits returns how many requests reached the given path.
func (u *FakeUpstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// URL returns the base URL of the fake server.
func (u *FakeUpstream) URL() string {
	return u.server.URL
}

// Client returns an HTTP client wired to the fake server.
func (u *FakeUpstream) Client() *http.Client {
	return u.server.Client()
}
