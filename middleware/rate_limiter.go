// middleware/rate_limiter.go
package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/inetsl/fieldvisit_backend/models"
)

type endpointLimit struct {
	limit rate.Limit
	burst int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles per client IP and blocks an IP for a while once it runs dry.
type RateLimiter struct {
	ips            map[string]*visitor
	blockedIPs     map[string]time.Time
	mu             sync.Mutex
	defaultLimit   rate.Limit
	defaultBurst   int
	blockDuration  time.Duration
	idleTimeout    time.Duration
	endpointLimits map[string]endpointLimit
}

func NewRateLimiter() *RateLimiter {
	limiter := &RateLimiter{
		ips:           make(map[string]*visitor),
		blockedIPs:    make(map[string]time.Time),
		defaultLimit:  rate.Every(100 * time.Millisecond), // 10 requests per second
		defaultBurst:  20,
		blockDuration: 5 * time.Minute,
		idleTimeout:   30 * time.Minute,
		endpointLimits: map[string]endpointLimit{
			// Brute force protection
			"/api/auth/login":    {limit: rate.Every(2 * time.Second), burst: 5},
			"/api/auth/register": {limit: rate.Every(500 * time.Millisecond), burst: 5},
			// Signatures are large bodies
			"/api/uploads/signature": {limit: rate.Every(time.Second), burst: 10},
		},
	}

	go limiter.cleanupBlockedIPs()

	return limiter
}

func (r *RateLimiter) cleanupBlockedIPs() {
	for {
		time.Sleep(1 * time.Hour)
		r.mu.Lock()
		r.sweepLocked(time.Now())
		r.mu.Unlock()
	}
}

// sweepLocked lifts expired blocks and drops limiters idle for longer than idleTimeout.
// r.mu must be held.
func (r *RateLimiter) sweepLocked(now time.Time) {
	for ip, blockUntil := range r.blockedIPs {
		if now.After(blockUntil) {
			r.resetLocked(ip)
		}
	}
	for key, v := range r.ips {
		if now.Sub(v.lastSeen) > r.idleTimeout {
			delete(r.ips, key)
		}
	}
}

func (r *RateLimiter) RateLimit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, "/uploads/") {
				return next(c)
			}

			ip := c.RealIP()
			now := time.Now()

			r.mu.Lock()
			if blockUntil, blocked := r.blockedIPs[ip]; blocked {
				if now.Before(blockUntil) {
					r.mu.Unlock()
					return tooManyRequests(c, "IP address blocked due to too many requests", blockUntil)
				}
				r.resetLocked(ip)
			}

			limit, burst := r.defaultLimit, r.defaultBurst
			if el, ok := r.endpointLimits[c.Path()]; ok {
				limit, burst = el.limit, el.burst
			}
			key := ip + "|" + c.Path()
			v, ok := r.ips[key]
			if !ok {
				v = &visitor{limiter: rate.NewLimiter(limit, burst)}
				r.ips[key] = v
			}
			v.lastSeen = now

			if !v.limiter.Allow() {
				blockUntil := now.Add(r.blockDuration)
				r.blockedIPs[ip] = blockUntil
				r.mu.Unlock()
				return tooManyRequests(c, "Too many requests", blockUntil)
			}
			r.mu.Unlock()

			return next(c)
		}
	}
}

// resetLocked forgets the block and every limiter of ip. r.mu must be held.
func (r *RateLimiter) resetLocked(ip string) {
	delete(r.blockedIPs, ip)
	for key := range r.ips {
		if strings.HasPrefix(key, ip+"|") {
			delete(r.ips, key)
		}
	}
}

func tooManyRequests(c echo.Context, message string, retryAfter time.Time) error {
	return c.JSON(http.StatusTooManyRequests, models.Response{
		Status:  http.StatusTooManyRequests,
		Message: message,
		Data:    map[string]string{"retryAfter": retryAfter.Format(time.RFC3339)},
	})
}
