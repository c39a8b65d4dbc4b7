package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/models"
)

func RegisterPaymentRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, pc *controllers.PaymentController) {
	payments := api.Group("/payments", requireAuth)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	payments.POST("", pc.CreatePayment, staff)
	payments.GET("/my/current-week", pc.GetMyCurrentWeekPayments)
	payments.GET("/admin", pc.GetWeeklyPaymentLedger, middleware.RequireRole(models.RoleAdmin))
	payments.PUT("/:id", pc.UpdatePayment)
	payments.DELETE("/:id", pc.DeletePayment, staff)
}
