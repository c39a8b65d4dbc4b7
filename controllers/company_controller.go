// controllers/company_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
)

type CompanyUseCases interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	CreateCompany(ctx context.Context, actor models.Actor, req models.CreateCompanyRequest) (*models.Company, error)
	UpdateCompany(ctx context.Context, actor models.Actor, id string, req models.UpdateCompanyRequest) (*models.Company, error)
	DeleteCompany(ctx context.Context, actor models.Actor, id string) error
	CompanyQRCode(ctx context.Context, id string) ([]byte, error)
}

type CompanyController struct {
	companies CompanyUseCases
}

// NewCompanyController creates a new company controller
func NewCompanyController(companies CompanyUseCases) *CompanyController {
	return &CompanyController{companies: companies}
}

func (cc *CompanyController) ListCompanies(c echo.Context) error {
	companies, err := cc.companies.ListCompanies(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Companies retrieved successfully", companies)
}

func (cc *CompanyController) GetCompany(c echo.Context) error {
	company, err := cc.companies.GetCompany(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Company retrieved successfully", company)
}

func (cc *CompanyController) CreateCompany(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.CreateCompanyRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	company, err := cc.companies.CreateCompany(c.Request().Context(), actor, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Company created successfully", company)
}

func (cc *CompanyController) UpdateCompany(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.UpdateCompanyRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	company, err := cc.companies.UpdateCompany(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Company updated successfully", company)
}

func (cc *CompanyController) DeleteCompany(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := cc.companies.DeleteCompany(c.Request().Context(), actor, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Company deleted successfully", nil)
}

// GetCompanyQRCode serves the company's map link as a PNG QR code.
func (cc *CompanyController) GetCompanyQRCode(c echo.Context) error {
	png, err := cc.companies.CompanyQRCode(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set("Cache-Control", "private, max-age=300")
	return c.Blob(http.StatusOK, "image/png", png)
}
