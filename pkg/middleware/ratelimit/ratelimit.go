package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Config struct {
	Limit  int
	Window time.Duration
	Prefix string
}

// New returns a fixed-window limiter keyed by client IP. A nil client
// disables limiting.
func New(rdb redis.Cmdable, cfg Config) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "rate_limit:"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if rdb == nil || cfg.Limit <= 0 {
			return next
		}
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := cfg.Prefix + c.RealIP()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				logging.FromContext(ctx).Warn("rate_limit_unavailable", "error", err)
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, cfg.Window)
			}

			remaining := int64(cfg.Limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Limit) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
