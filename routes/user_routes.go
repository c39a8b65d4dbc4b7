package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/models"
)

// RegisterUserRoutes mounts the Admin-only user management routes.
func RegisterUserRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, uc *controllers.UserController) {
	users := api.Group("/users", requireAuth, middleware.RequireRole(models.RoleAdmin))

	users.GET("", uc.GetAllUsers)
	users.PATCH("/:id", uc.UpdateUser)
	users.DELETE("/:id", uc.DeleteUser)
}
