package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/actuallystonmai/catalog-recommender/internal/auth"
	"github.com/actuallystonmai/catalog-recommender/internal/handler"
)

func testRouter(t *testing.T, opts Options) http.Handler {
	t.Helper()
	tm, err := auth.NewTokenManager("router-test-secret-123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return Setup(handler.NewHandler(nil), tm, opts)
}

func TestRequestIDHeader(t *testing.T) {
	r := testRouter(t, Options{CORSOrigins: []string{"*"}})

	tests := []struct {
		name string
		in   string
		keep bool
	}{
		{"generated", "", false},
		{"propagated", "abc-123", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.in != "" {
				req.Header.Set(requestIDHeader, tt.in)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			got := rec.Header().Get(requestIDHeader)
			if got == "" {
				t.Fatal("missing request id header")
			}
			if tt.keep && got != tt.in {
				t.Errorf("request id = %q, want %q", got, tt.in)
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := testRouter(t, Options{CORSOrigins: []string{"*"}})

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPut, "/api/users/1/ratings/movie/2"},
		{http.MethodPost, "/api/first-access"},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tt.method, tt.path, rec.Code)
		}
	}
}

func TestRateLimit(t *testing.T) {
	r := testRouter(t, Options{CORSOrigins: []string{"*"}, RateLimitRequests: 1, RateLimitWindow: time.Minute})

	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/api/recommendations/batch?page=0", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusBadRequest || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [400 429]", codes)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := testRouter(t, Options{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET /metrics = %d", rec.Code)
	}
}
