package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/controllers"
	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/models"
)

func RegisterCompanyRoutes(api *echo.Group, requireAuth echo.MiddlewareFunc, cc *controllers.CompanyController) {
	companies := api.Group("/companies", requireAuth)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleManager)

	companies.GET("", cc.ListCompanies)
	companies.GET("/:id", cc.GetCompany)
	companies.GET("/:id/qrcode", cc.GetCompanyQRCode)
	companies.POST("", cc.CreateCompany, staff)
	companies.PUT("/:id", cc.UpdateCompany, staff)
	companies.DELETE("/:id", cc.DeleteCompany, staff)
}
