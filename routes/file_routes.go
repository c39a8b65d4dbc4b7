package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
)

func RegisterUploadRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, uc *controllers.UploadController) {
	api.POST("/uploads/signature", uc.UploadSignature, requireAuth)
}

// RegisterFileRoutes serves locally stored uploads.
func RegisterFileRoutes(e *echo.Echo, uploadDir string) {
	e.Static("/uploads", uploadDir)
}
