package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/security"
)

// RequireJSON rejects POST, PUT and PATCH requests whose non-empty body is not JSON.
func RequireJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !security.CarriesBody(req.Method) || req.ContentLength == 0 {
				return next(c)
			}
			if !security.IsJSONContentType(req.Header.Get(echo.HeaderContentType)) {
				return c.JSON(http.StatusUnsupportedMediaType, models.Response{
					Status:  http.StatusUnsupportedMediaType,
					Message: "Content-Type must be application/json",
				})
			}
			return next(c)
		}
	}
}
