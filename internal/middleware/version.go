package middleware

import "github.com/labstack/echo/v4"

const serviceVersion = "1.0.0"

// VersionHeader stamps every response with the service version.
func VersionHeader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("X-Service-Version", serviceVersion)
		return next(c)
	}
}
