package middleware

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines a token bucket: capacity MaxTokens, continuous
// refill of RefillRate tokens per second. Window only controls how long an
// idle bucket survives before the sweep removes it.
type RateLimitConfig struct {
	MaxTokens  int
	RefillRate float64
	Window     time.Duration
}

// bucket tracks one client's limiter and when it was last touched.
type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-memory per-client token-bucket limiter. Refill is
// lazy: tokens accrue on check, not via a background timer. A periodic sweep
// drops buckets idle longer than twice the window to bound memory.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  RateLimitConfig

	now    func() time.Time // injectable clock for tests
	stopCh chan struct{}
}

// NewRateLimiter creates a rate limiter with the given config and starts the
// idle-bucket sweep.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		config:  cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// CheckLimit admits or denies one request for the given client identity.
// It always returns a result; there are no failure modes.
func (rl *RateLimiter) CheckLimit(clientID string) (allowed bool, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[clientID]
	if !exists {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(rl.config.RefillRate), rl.config.MaxTokens)}
		rl.buckets[clientID] = b
	}
	b.lastSeen = now

	allowed = b.lim.AllowN(now, 1)
	// rate.Limit(0) means no refill: the limiter then draws down its burst
	// instead of the token store, and TokensAt stays at zero. Report the
	// burst in that case so remaining tracks what admission actually sees.
	if rl.config.RefillRate == 0 {
		remaining = b.lim.Burst()
	} else {
		remaining = int(b.lim.TokensAt(now))
	}
	if remaining < 0 {
		remaining = 0
	}
	return allowed, remaining
}

// Handler returns a Fiber middleware enforcing the limit. Denied requests get
// a 429 with retry guidance; X-RateLimit-Remaining is set on every response
// as an observability header.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		allowed, remaining := rl.CheckLimit(ClientID(c))

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.config.MaxTokens))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if !allowed {
			c.Set("Retry-After", "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "RATE_LIMITED",
					"message": "Too many requests. Please try again later.",
				},
			})
		}

		return c.Next()
	}
}

// Stop halts the sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.removeIdle()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) removeIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-2 * rl.config.Window)
	for id, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, id)
		}
	}
}

// ClientID resolves the client identity from forwarded-IP headers, in fixed
// priority order. All clients without any of these headers share the
// "unknown" bucket, so one unresolvable flood can starve another — a known
// limitation, not a bug.
func ClientID(c fiber.Ctx) string {
	return resolveClientID(
		c.Get("X-Forwarded-For"),
		c.Get("X-Real-IP"),
		c.Get("CF-Connecting-IP"),
	)
}

func resolveClientID(forwardedFor, realIP, cfConnectingIP string) string {
	if forwardedFor != "" {
		return strings.TrimSpace(strings.Split(forwardedFor, ",")[0])
	}
	if realIP != "" {
		return realIP
	}
	if cfConnectingIP != "" {
		return cfConnectingIP
	}
	return "unknown"
}

// NewAPIRateLimiter: 30 requests burst, refilling at 0.5 tokens/sec per IP.
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		MaxTokens:  30,
		RefillRate: 0.5,
		Window:     time.Minute,
	})
}
