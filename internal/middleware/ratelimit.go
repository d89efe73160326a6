package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter applies a token-bucket limit per client IP. Stale limiters
// are dropped after an idle period so the map does not grow unbounded.
type IPRateLimiter struct {
	mu          sync.Mutex
	limiters    map[string]*ipLimiterEntry
	rate        rate.Limit
	burst       int
	idleTTL     time.Duration
	lastCleanup time.Time
}

type ipLimiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// NewIPRateLimiter creates a limiter allowing r requests per second with the
// given burst per IP.
func NewIPRateLimiter(r float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters:    make(map[string]*ipLimiterEntry),
		rate:        rate.Limit(r),
		burst:       burst,
		idleTTL:     10 * time.Minute,
		lastCleanup: time.Now(),
	}
}

// Allow reports whether a request from the given IP may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	// Opportunistic sweep, at most once per idle period, regardless of how
	// busy the limiter is.
	if now.Sub(l.lastCleanup) > l.idleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.seen) > l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastCleanup = now
	}

	e, ok := l.limiters[ip]
	if !ok {
		e = &ipLimiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = e
	}
	e.seen = now

	return e.limiter.Allow()
}

// Middleware rejects over-limit requests with 429 Too Many Requests.
func (l *IPRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(clientIP(r)) {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the remote IP without the port. RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For where applicable.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
