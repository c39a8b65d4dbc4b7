package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
)

type VisitUseCases interface {
	CreateVisit(ctx context.Context, actor models.Actor, req models.CreateVisitRequest) (*models.Visit, error)
	GetVisitsByWeek(ctx context.Context, actor models.Actor, query models.VisitQuery) (*models.VisitList, error)
	UpdateVisit(ctx context.Context, actor models.Actor, id string, req models.UpdateVisitRequest) (*models.Visit, error)
	DeleteVisit(ctx context.Context, actor models.Actor, id string) error
}

// RollupUseCases are the weekly dashboards.
type RollupUseCases interface {
	PersonalDashboard(ctx context.Context, actor models.Actor) (*models.PersonalDashboard, error)
	EmployeeOverview(ctx context.Context, actor models.Actor, employeeID, weekSelector string) (*models.EmployeeOverview, error)
	CompanyOverview(ctx context.Context, actor models.Actor, weekSelector string) (*models.CompanyOverview, error)
	WeeklyPaymentLedger(ctx context.Context, actor models.Actor, weekSelector, employeeID string) (*models.PaymentLedger, error)
}

type VisitController struct {
	visits  VisitUseCases
	rollups RollupUseCases
}

// NewVisitController creates a new visit controller
func NewVisitController(visits VisitUseCases, rollups RollupUseCases) *VisitController {
	return &VisitController{visits: visits, rollups: rollups}
}

func (vc *VisitController) CreateVisit(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.CreateVisitRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	visit, err := vc.visits.CreateVisit(c.Request().Context(), actor, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Visit added successfully", visit)
}

func (vc *VisitController) GetPersonalDashboard(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	dashboard, err := vc.rollups.PersonalDashboard(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}

func (vc *VisitController) GetVisitsByWeek(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var query models.VisitQuery
	if err := bind(c, &query); err != nil {
		return respondError(c, err)
	}

	list, err := vc.visits.GetVisitsByWeek(c.Request().Context(), actor, query)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Visits retrieved successfully", list)
}

func (vc *VisitController) GetEmployeeWeeklyOverview(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	overview, err := vc.rollups.EmployeeOverview(c.Request().Context(), actor, c.Param("employeeId"), c.QueryParam("weekStart"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Employee overview retrieved successfully", overview)
}

func (vc *VisitController) GetCompanyWeeklyOverview(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	overview, err := vc.rollups.CompanyOverview(c.Request().Context(), actor, c.QueryParam("weekStart"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Company overview retrieved successfully", overview)
}

func (vc *VisitController) UpdateVisit(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.UpdateVisitRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	visit, err := vc.visits.UpdateVisit(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Visit updated successfully", visit)
}

func (vc *VisitController) DeleteVisit(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := vc.visits.DeleteVisit(c.Request().Context(), actor, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Visit deleted successfully", nil)
}
