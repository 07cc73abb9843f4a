package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"workout_scheduler/internal/logger"
	"workout_scheduler/pkg/apperrors"
)

// RateLimiter - token bucket на каждый IP клиента
type RateLimiter struct {
	limiters map[string]*visitor
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
	swept    time.Time
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*visitor),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		ttl:      10 * time.Minute,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if rl.swept.IsZero() {
		rl.swept = now
	}
	if now.Sub(rl.swept) >= rl.ttl {
		rl.sweep(now)
	}

	v, exists := rl.limiters[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow - отдельно от Handler для тестов
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !rl.Allow(key) {
			logger.CtxWarn(c.Request.Context(), "Rate limit exceeded",
				"client_ip", key,
				"path", c.FullPath(),
				"method", c.Request.Method,
			)
			c.Header("Retry-After", "1")
			apperrors.HandleError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// Cleanup удаляет лимитеры, не использованные дольше ttl.
// Вызывается и из getLimiter не чаще раза в ttl, отдельной горутины нет
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.sweep(rl.now())
}

func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-rl.ttl)
	for key, v := range rl.limiters {
		if v.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
	rl.swept = now
}
