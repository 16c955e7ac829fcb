package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/response"
)

const MsgTooManyRequests = "Demasiadas solicitudes desde esta IP, intenta de nuevo más tarde"

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// newIPRateLimiter allows requests per window for each client, refilled
// evenly across the window.
func newIPRateLimiter(requests int, window time.Duration) *ipRateLimiter {
	// rate.Every(0) is rate.Inf, so the refill interval never drops below 1ns.
	interval := max(window/time.Duration(requests), time.Nanosecond)

	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(interval),
		burst:    requests,
		idle:     window,
	}
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.limit, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// cleanup drops clients idle for a full window until ctx is done.
func (rl *ipRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evict(time.Now())
		}
	}
}

func (rl *ipRateLimiter) evict(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.visitors, ip)
		}
	}
}

// RateLimit returns middleware that limits each client IP to requests per
// window. A non-positive requests disables limiting. The eviction goroutine
// stops with ctx.
func RateLimit(ctx context.Context, requests int, window time.Duration, errs *response.Writer) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := newIPRateLimiter(requests, window)
	go limiter.cleanup(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				errs.Error(w, r, apperr.WithStatus(http.StatusTooManyRequests, MsgTooManyRequests, nil))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
