package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestIPRateLimiterAllow(t *testing.T) {
	l := NewIPRateLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst denied", i+1)
		}
	}
	if l.Allow("10.0.0.1") {
		t.Error("request over burst allowed")
	}

	// A different IP has its own bucket.
	if !l.Allow("10.0.0.2") {
		t.Error("fresh IP denied")
	}
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	handler := l.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.0.2.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want 429", rec.Code)
	}
}

func TestStaleLimitersSweptUnderSteadyTraffic(t *testing.T) {
	l := &IPRateLimiter{
		limiters:    make(map[string]*ipLimiterEntry),
		rate:        rate.Limit(100),
		burst:       100,
		idleTTL:     10 * time.Millisecond,
		lastCleanup: time.Now(),
	}

	l.Allow("10.0.0.1")
	time.Sleep(25 * time.Millisecond)

	// Fresh traffic from another IP must still trigger the sweep of the
	// idle entry; the limiter itself never went quiet.
	l.Allow("10.0.0.2")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.limiters["10.0.0.1"]; ok {
		t.Error("idle limiter entry survived the sweep")
	}
	if _, ok := l.limiters["10.0.0.2"]; !ok {
		t.Error("active limiter entry missing")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:4321"
	if got := clientIP(r); got != "198.51.100.7" {
		t.Errorf("clientIP = %q, want 198.51.100.7", got)
	}

	r.RemoteAddr = "noport"
	if got := clientIP(r); got != "noport" {
		t.Errorf("clientIP = %q, want raw value when port is absent", got)
	}
}
