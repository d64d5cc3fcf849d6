package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sajidalishaik45/coauthor-network/internal/apierr"
)

// RateLimitOptions configures the global and per-client token buckets.
type RateLimitOptions struct {
	GlobalRPS   float64
	GlobalBurst int
	IPRPS       float64
	IPBurst     int
	// IdleTTL is how long an idle client's bucket is kept.
	IdleTTL time.Duration
}

// RateLimiter throttles API requests with one global bucket and one bucket
// per client IP. Pin updates during a drag arrive at display rate, so the
// per-IP burst must cover a few frames.
type RateLimiter struct {
	global  *rate.Limiter
	ipRate  rate.Limit
	ipBurst int
	ttl     time.Duration

	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter whose idle-client sweep runs until ctx is
// done.
func NewRateLimiter(ctx context.Context, opts RateLimitOptions) *RateLimiter {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 3 * time.Minute
	}
	rl := &RateLimiter{
		global:  rate.NewLimiter(rate.Limit(opts.GlobalRPS), opts.GlobalBurst),
		ipRate:  rate.Limit(opts.IPRPS),
		ipBurst: opts.IPBurst,
		ttl:     opts.IdleTTL,
		clients: make(map[string]*client),
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.ipRate, rl.ipBurst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter
}

func (rl *RateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	n := 0
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.ttl {
			delete(rl.clients, ip)
			n++
		}
	}
	return n
}

// Limit returns a middleware handler that enforces rate limits.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.global.Allow() {
			apierr.WriteErrorWithContext(w, r, apierr.RateLimitGlobal())
			return
		}
		if !rl.limiter(ClientIP(r)).Allow() {
			apierr.WriteErrorWithContext(w, r, apierr.RateLimitIP())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// remote address without its port.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
