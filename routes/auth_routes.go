package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
)

func RegisterAuthRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, ac *controllers.AuthController) {
	auth := api.Group("/auth")
	auth.POST("/register", ac.Register)
	auth.POST("/login", ac.Login)
	auth.POST("/refresh-token", ac.RefreshToken)
	auth.POST("/logout", ac.Logout)
	auth.GET("/me", ac.Me, requireAuth)
}
