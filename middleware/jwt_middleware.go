// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/services"
	"github.com/inetsl/fieldvisit_backend/utils"
)

const actorKey = "actor"

// Authenticator resolves a bearer access token into the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (models.Actor, error)
}

// JWTMiddleware requires a valid "Authorization: Bearer <token>" header and stores the
// resolved actor in the context.
func JWTMiddleware(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := utils.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: "No token provided",
				})
			}

			actor, err := auth.Authenticate(c.Request().Context(), token)
			if err != nil {
				if services.KindOf(err) == services.KindInternal {
					log.Printf("JWT middleware error: %v", err)
					return c.JSON(http.StatusInternalServerError, models.Response{
						Status:  http.StatusInternalServerError,
						Message: "Internal server error",
					})
				}
				return c.JSON(http.StatusUnauthorized, models.Response{
					Status:  http.StatusUnauthorized,
					Message: services.MessageOf(err),
				})
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// GetActor returns the actor stored by JWTMiddleware.
func GetActor(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorKey).(models.Actor)
	return actor, ok
}
