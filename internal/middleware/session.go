package middleware

import (
	"context"
	"log"

	"canteenhub/internal/caching"
	"canteenhub/internal/common"

	"github.com/labstack/echo/v4"
)

const SessionHeader = "X-Session-Token"

// RequireSession resolves the session token header against the cache and puts
// the bound employee id into the request context. Requests without a verified
// session are rejected; verification happens at the kiosk before anything
// else.
func RequireSession(cache caching.CacheService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := c.Request().Header.Get(SessionHeader)
			if sessionID == "" {
				return common.SendUnauthorizedError(c)
			}

			employeeID, bound, err := cache.GetSession(c.Request().Context(), sessionID)
			if err != nil {
				log.Printf("ERROR: session lookup failed: %v", err)
				return common.SendServerError(c, "Failed to resolve session")
			}
			if !bound {
				return common.SendUnauthorizedError(c)
			}

			ctx := context.WithValue(c.Request().Context(), common.SessionIDKey, sessionID)
			ctx = context.WithValue(ctx, common.EmployeeIDKey, employeeID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
