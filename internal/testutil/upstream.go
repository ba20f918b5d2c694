package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeUpstream is an httptest server standing in for the remote catalog.
type FakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int64

	mu       sync.Mutex
	requests []*http.Request
}

func NewFakeUpstream(t *testing.T, h http.Handler) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(r.Context()))
		f.mu.Unlock()
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeUpstream) URL() string {
	return f.server.URL
}

// Calls is the number of requests received so far.
func (f *FakeUpstream) Calls() int {
	return int(f.calls.Load())
}

// LastRequest returns the most recent request, or nil.
func (f *FakeUpstream) LastRequest() *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

// StatusHandler always answers with status and an empty JSON object.
func StatusHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{}`))
	})
}

// JSONHandler always answers 200 with v encoded as JSON.
func JSONHandler(v any) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	})
}

// RawHandler always answers 200 with body.
func RawHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

// Envelope wraps data the way the remote source does.
func Envelope(data any) map[string]any {
	return map[string]any{"data": data}
}
