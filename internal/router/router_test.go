// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inkwell/internal/handlers"
	"inkwell/internal/token"
)

func testRouter() http.Handler {
	codec := token.NewCodec("router-test-secret")
	return New(codec, []string{"http://localhost:5173"},
		handlers.NewUsers(nil, codec, nil),
		handlers.NewPosts(nil, nil, nil),
		handlers.NewComments(nil, nil, nil),
	)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter()

	protected := []struct {
		method string
		path   string
	}{
		{"PUT", "/user/profile/update"},
		{"GET", "/user/all"},
		{"POST", "/blog/"},
		{"PUT", "/blog/edit/123"},
		{"DELETE", "/blog/delete/123"},
		{"GET", "/blog/get-own-blogs"},
		{"GET", "/blog/my-blogs/likes"},
		{"GET", "/blog/action/123/like"},
		{"GET", "/blog/action/123/dislike"},
		{"PATCH", "/blog/action/123/publish"},
		{"POST", "/comment/123"},
		{"PUT", "/comment/123"},
		{"DELETE", "/comment/123"},
		{"PATCH", "/comment/like/123"},
		{"GET", "/comment/my-blogs/comments"},
	}

	for _, tt := range protected {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: got %d, want 401", tt.method, tt.path, w.Code)
		}
	}
}

func TestPublicRoutesSkipAuth(t *testing.T) {
	r := testRouter()

	public := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/user/logout"},
	}

	for _, tt := range public {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tt.method, tt.path, nil)
		r.ServeHTTP(w, req)
		if w.Code == http.StatusUnauthorized {
			t.Errorf("%s %s: unexpected 401", tt.method, tt.path)
		}
		if w.Code != http.StatusOK {
			t.Errorf("%s %s: got %d, want 200", tt.method, tt.path, w.Code)
		}
	}
}

func TestSecureHeadersApplied(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/user/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin: got %q", got)
	}
}
