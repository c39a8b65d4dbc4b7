package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/models"
)

func RegisterVisitRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, vc *controllers.VisitController) {
	visits := api.Group("/visits", requireAuth)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	visits.POST("", vc.CreateVisit)
	visits.GET("", vc.GetVisitsByWeek)
	visits.GET("/dashboard/current-week", vc.GetPersonalDashboard)
	visits.GET("/overview/current-week", vc.GetCompanyWeeklyOverview)
	visits.GET("/overview/employee/:employeeId", vc.GetEmployeeWeeklyOverview, staff)
	visits.PUT("/:id", vc.UpdateVisit, staff)
	visits.DELETE("/:id", vc.DeleteVisit, staff)
}
