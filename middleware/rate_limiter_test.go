package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TheSiteshKumar/parlegg/utils"
)

func TestClientIPGeneric_DirectRemote(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "203.0.113.5:54321"
	ip := clientIPGeneric(req, nil)
	if ip != "203.0.113.5" {
		t.Fatalf("expected direct remote IP, got %s", ip)
	}
}

func TestClientIPGeneric_TrustedProxyXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.10:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.10")
	// trustedCIDR contains the remote IP
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "203.0.113.7" {
		t.Fatalf("expected X-Forwarded-For first value, got %s", ip)
	}
}

func TestClientIPGeneric_UntrustedProxyIgnoresXFF(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.local/", nil)
	req.RemoteAddr = "198.51.100.11:443"
	req.Header.Set("X-Forwarded-For", "203.0.113.8, 198.51.100.11")
	ip := clientIPGeneric(req, []string{"198.51.100.10"})
	if ip != "198.51.100.11" {
		t.Fatalf("expected remote IP when proxy untrusted, got %s", ip)
	}
}

func okHandler(hits *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		w.WriteHeader(http.StatusOK)
	})
}

func TestIPRateLimiterBlocksOverLimit(t *testing.T) {
	limiter := NewIPRateLimiter(2, time.Minute)
	var hits int
	h := limiter.Middleware(okHandler(&hits))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("POST", "http://example.local/v1/login", nil)
		req.RemoteAddr = "203.0.113.20:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest("POST", "http://example.local/v1/login", nil)
	req.RemoteAddr = "203.0.113.20:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	if hits != 2 {
		t.Errorf("handler ran %d times, want 2", hits)
	}
}

func TestIPRateLimiterKeysByIP(t *testing.T) {
	limiter := NewIPRateLimiter(1, time.Minute)
	var hits int
	h := limiter.Middleware(okHandler(&hits))

	for _, addr := range []string{"203.0.113.30:1", "203.0.113.31:1"} {
		req := httptest.NewRequest("GET", "http://example.local/v1/plans", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d, want 200", addr, rec.Code)
		}
	}
	if hits != 2 {
		t.Errorf("handler ran %d times, want 2", hits)
	}
}

func userRequest(method, target string, uid uint) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.40:9999"
	ctx := context.WithValue(req.Context(), utils.UserIDKey, uid)
	return req.WithContext(ctx)
}

func TestUserRateLimiterSeparatesReadsAndWrites(t *testing.T) {
	limiter := NewUserRateLimiter(10, 1, 60)
	var hits int
	h := limiter.Middleware(okHandler(&hits))

	// one write allowed, the second blocked
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, userRequest("POST", "http://example.local/v1/users/profile", 7))
	if rec.Code != http.StatusOK {
		t.Fatalf("first write: status %d, want 200", rec.Code)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, userRequest("POST", "http://example.local/v1/users/profile", 7))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second write: status %d, want 429", rec.Code)
	}

	// reads stay within their own, larger budget
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, userRequest("GET", "http://example.local/v1/users/me", 8))
	if rec.Code != http.StatusOK {
		t.Fatalf("read: status %d, want 200", rec.Code)
	}
}

func TestUserRateLimiterSkipsUnauthenticated(t *testing.T) {
	limiter := NewUserRateLimiter(1, 1, 60)
	var hits int
	h := limiter.Middleware(okHandler(&hits))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "http://example.local/v1/plans", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d, want 200", i+1, rec.Code)
		}
	}
}

func TestRouteCategory(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/v1/admins/dashboard", "admin"},
		{"/v1/users/funds", "money"},
		{"/v1/users/withdrawals", "money"},
		{"/v1/users/investments/5", "money"},
		{"/v1/users/me", "api"},
		{"/v1/users/referral/stats", "api"},
	}
	for _, tt := range tests {
		if got := routeCategory(tt.path); got != tt.want {
			t.Errorf("routeCategory(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCronLimiterWhitelistBypass(t *testing.T) {
	limiter := NewCronLimiter(1, time.Hour, []string{"198.51.100.50"})
	var hits int
	h := limiter.Middleware(okHandler(&hits))

	// whitelisted scheduler is never throttled
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "http://example.local/v1/cron/daily-returns", nil)
		req.RemoteAddr = "198.51.100.50:443"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("whitelisted request %d: status %d, want 200", i+1, rec.Code)
		}
	}

	// others hit the window
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("POST", "http://example.local/v1/cron/daily-returns", nil)
		req.RemoteAddr = "203.0.113.60:443"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("request %d: status %d, want %d", i+1, rec.Code, want)
		}
	}
}
