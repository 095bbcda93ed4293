package gatewayproxy

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"relaychat/logger"
)

// LimitRule is a fixed-window cap: at most Max requests per client IP
// within Window.
type LimitRule struct {
	Window time.Duration
	Max    int64
}

// DefaultRules mirrors the original gateway: auth endpoints get a
// tight window, the rest a wide one.
func DefaultRules() map[string]LimitRule {
	return map[string]LimitRule{
		"auth": {Window: time.Minute, Max: 500},
		"api":  {Window: time.Hour, Max: 1000},
	}
}

// Limiter counts requests in redis with INCR + PEXPIRE. When redis is
// unavailable requests pass; limiting is construed as best-effort.
type Limiter struct {
	client *redis.Client
	rules  map[string]LimitRule
}

func NewLimiter(client *redis.Client, rules map[string]LimitRule) *Limiter {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Limiter{client: client, rules: rules}
}

// Allow counts one request for (rule, ip) and reports whether it is
// under the cap.
func (l *Limiter) Allow(ctx context.Context, rule, ip string) bool {
	r, ok := l.rules[rule]
	if !ok || l.client == nil {
		return true
	}
	key := "apigw:rl:" + rule + ":" + ip

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Warnf("[apigw] rate limit check skipped: %v", err)
		return true
	}
	if n == 1 {
		_ = l.client.PExpire(ctx, key, r.Window).Err()
	}
	return n <= r.Max
}

func (l *Limiter) Middleware(rule string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), rule, c.ClientIP()) {
			logger.Warnf("[apigw] rate limit hit for %s requests from IP: %s", rule, c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests from this IP, please try again later",
				"code":    http.StatusTooManyRequests,
			})
			return
		}
		c.Next()
	}
}
