package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"authgate/internal/cache"
	apperrors "authgate/internal/errors"
)

const rateLimitKeyPrefix = "ratelimit:login:"

// RateLimit returns middleware that allows at most quota requests per client
// IP within a fixed window. The counter lives in redis; if redis is down the
// limiter fails open and the request goes through.
func RateLimit(cacheClient *cache.Client, quota int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := rateLimitKeyPrefix + c.RealIP()

			count, err := cacheClient.IncrWindow(ctx, key, window)
			if err != nil {
				return next(c)
			}

			remaining := int64(quota) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(quota))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(quota) {
				retryAfter := cacheClient.TTL(ctx, key)
				if retryAfter <= 0 {
					retryAfter = window
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
				return c.JSON(http.StatusTooManyRequests, apperrors.MessageResponse{
					Message: "Too Many Attempts.",
				})
			}

			return next(c)
		}
	}
}
