package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joy095/bayelite/logger"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginmiddleware "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Usage:
// r.PUT("/api/bookings/:id", middleware.NewRateLimiter(rdb, "30-1m", "update_booking"), handler)
// r.POST("/api/payments/webhook", middleware.CombinedRateLimiter(rdb, "webhook", "60-1m", "600-1h"), handler)

// clientKey identifies the caller. There is no authentication, so the client IP is used.
func clientKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "anonymous"
}

// createStore returns a Redis-backed store shared across instances, or an in-process
// store when Redis is not configured.
func createStore(rdb *redis.Client, routeID string, period time.Duration) (limiter.Store, error) {
	opts := limiter.StoreOptions{
		Prefix:          fmt.Sprintf("rate_limiter:%s", routeID),
		MaxRetry:        3,
		CleanUpInterval: period,
	}
	if rdb == nil {
		return memorystore.NewStoreWithOptions(opts), nil
	}

	store, err := redisstore.NewStoreWithOptions(rdb, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for route %s: %w", routeID, err)
	}
	return store, nil
}

// ParseCustomRate allows formats like "10-2m", "30-20m", "5-1h", "20-10s", etc.
func ParseCustomRate(rateStr string) (limiter.Rate, error) {
	parts := strings.Split(rateStr, "-")
	if len(parts) != 2 {
		return limiter.Rate{}, fmt.Errorf("invalid rate format: %s", rateStr)
	}

	limit, err := strconv.Atoi(parts[0])
	if err != nil || limit <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid limit: %s", parts[0])
	}

	durationStr := parts[1]
	if len(durationStr) < 2 {
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}
	units := map[byte]time.Duration{'s': time.Second, 'm': time.Minute, 'h': time.Hour}
	unit, ok := units[durationStr[len(durationStr)-1]]
	if !ok {
		return limiter.Rate{}, fmt.Errorf("unsupported period: %s", durationStr)
	}
	n, err := strconv.Atoi(durationStr[:len(durationStr)-1])
	if err != nil || n <= 0 {
		return limiter.Rate{}, fmt.Errorf("invalid period: %s", durationStr)
	}

	return limiter.Rate{
		Period: time.Duration(n) * unit,
		Limit:  int64(limit),
	}, nil
}

// NewRateLimiter limits each client on routeID to rateStr, e.g. "10-2m". A bad rate or
// store leaves the route unlimited and logs why.
func NewRateLimiter(rdb *redis.Client, rateStr, routeID string) gin.HandlerFunc {
	rate, err := ParseCustomRate(rateStr)
	if err != nil {
		logger.ErrorLogger.Errorf("Error parsing rate for route %s: %v", routeID, err)
		return func(c *gin.Context) {
			c.Next()
		}
	}

	store, err := createStore(rdb, routeID, rate.Period)
	if err != nil {
		logger.ErrorLogger.Errorf("Error creating rate limit store for route %s: %v", routeID, err)
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return ginmiddleware.NewMiddleware(limiter.New(store, rate), ginmiddleware.WithKeyGetter(clientKey))
}

// CombinedRateLimiter applies several rates to the same route; the first one exceeded
// rejects the request. Store errors let the request through.
func CombinedRateLimiter(rdb *redis.Client, routeID string, rateStrings ...string) gin.HandlerFunc {
	var limiters []*limiter.Limiter
	for i, rateStr := range rateStrings {
		rate, err := ParseCustomRate(rateStr)
		if err != nil {
			logger.ErrorLogger.Errorf("Error parsing rate for route %s: %v", routeID, err)
			continue
		}
		store, err := createStore(rdb, fmt.Sprintf("%s_%d", routeID, i), rate.Period)
		if err != nil {
			logger.ErrorLogger.Errorf("Error creating rate limit store for route %s: %v", routeID, err)
			continue
		}
		limiters = append(limiters, limiter.New(store, rate))
	}

	return func(c *gin.Context) {
		key := clientKey(c)
		for _, l := range limiters {
			lctx, err := l.Get(c, key)
			if err != nil {
				logger.WarnLogger.Warnf("Rate limit lookup failed for %s: %v", routeID, err)
				continue
			}
			if lctx.Reached {
				c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
				c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))
				c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
				return
			}
		}
		c.Next()
	}
}
