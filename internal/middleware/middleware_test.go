// internal/middleware/middleware_test.go
//
// Unit-tests for the HTTP wrappers.
//
// Run: go test ./internal/middleware -v

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/yanizio/formhook/internal/logger"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurity_HeadersPresent(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, h := range []string{
		"Strict-Transport-Security",
		"Content-Security-Policy",
		"X-Frame-Options",
		"X-Content-Type-Options",
		"Referrer-Policy",
		"Permissions-Policy",
	} {
		if rr.Header().Get(h) == "" {
			t.Errorf("header %s missing", h)
		}
	}
}

func TestForceHTTPS_Redirects(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://forms.example.com/?a=1", nil)
	rr := httptest.NewRecorder()

	ForceHTTPS(true, okHandler()).ServeHTTP(rr, req)

	if rr.Code != http.StatusPermanentRedirect {
		t.Fatalf("status = %d, want 308", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "https://forms.example.com/?a=1" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestForceHTTPS_SkipsLocalhostAndDisabled(t *testing.T) {
	rr := httptest.NewRecorder()
	ForceHTTPS(true, okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost:8080/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("localhost status = %d, want 200", rr.Code)
	}

	rr = httptest.NewRecorder()
	ForceHTTPS(false, okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://forms.example.com/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("disabled status = %d, want 200", rr.Code)
	}
}

func TestForceHTTPS_TrustsForwardedProto(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://forms.example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()

	ForceHTTPS(true, okHandler()).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestRequestLogger_StoresLogger(t *testing.T) {
	base := zap.NewNop().Sugar()
	var got *zap.SugaredLogger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = logger.FromContext(r.Context())
	})

	RequestLogger(base)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got == nil || got == zap.S() {
		t.Fatalf("request logger not stored in context")
	}
}
