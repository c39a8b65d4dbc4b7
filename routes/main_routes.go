package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
)

// Controllers groups every handler the API exposes.
type Controllers struct {
	Auth      *controllers.AuthController
	Visits    *controllers.VisitController
	Payments  *controllers.PaymentController
	Companies *controllers.CompanyController
	Users     *controllers.UserController
	Uploads   *controllers.UploadController
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, auth middleware.Authenticator, ctrl Controllers) {
	api := e.Group("/api", middleware.RequireJSON())
	requireAuth := middleware.JWTMiddleware(auth)

	RegisterAuthRoutes(api, requireAuth, ctrl.Auth)
	RegisterVisitRoutes(api, requireAuth, ctrl.Visits)
	RegisterPaymentRoutes(api, requireAuth, ctrl.Payments)
	RegisterCompanyRoutes(api, requireAuth, ctrl.Companies)
	RegisterUserRoutes(api, requireAuth, ctrl.Users)
	RegisterUploadRoutes(api, requireAuth, ctrl.Uploads)
}
