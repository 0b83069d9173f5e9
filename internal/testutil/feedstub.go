// Package testutil provides helpers for deterministic feed tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// StaticFeed serves a fixed body on every request.
func StaticFeed(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// FailingFeed serves the given status code with an empty body.
func FailingFeed(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server
}

// RecordingFeed serves a fixed body and captures the last request seen,
// so tests can assert on headers and query parameters.
type RecordingFeed struct {
	URL string

	mu   sync.Mutex
	last *http.Request
}

// StartRecordingFeed starts a RecordingFeed serving body.
func StartRecordingFeed(t *testing.T, body string) *RecordingFeed {
	t.Helper()
	feed := &RecordingFeed{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		feed.mu.Lock()
		feed.last = r.Clone(r.Context())
		feed.mu.Unlock()
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	feed.URL = server.URL
	return feed
}

// LastRequest returns the most recent request, or nil if none arrived.
func (f *RecordingFeed) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}
