package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
)

type PaymentUseCases interface {
	CreatePayment(ctx context.Context, actor models.Actor, req models.CreatePaymentRequest) (*models.Payment, error)
	GetMyCurrentWeekPayments(ctx context.Context, actor models.Actor) ([]models.PaymentDetail, error)
	UpdatePayment(ctx context.Context, actor models.Actor, id string, req models.UpdatePaymentRequest) (*models.Payment, error)
	DeletePayment(ctx context.Context, actor models.Actor, id string) error
}

type PaymentController struct {
	payments PaymentUseCases
	rollups  RollupUseCases
}

// NewPaymentController creates a new payment controller
func NewPaymentController(payments PaymentUseCases, rollups RollupUseCases) *PaymentController {
	return &PaymentController{payments: payments, rollups: rollups}
}

func (pc *PaymentController) CreatePayment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.CreatePaymentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	payment, err := pc.payments.CreatePayment(c.Request().Context(), actor, req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusCreated, "Payment created successfully", payment)
}

func (pc *PaymentController) GetMyCurrentWeekPayments(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	payments, err := pc.payments.GetMyCurrentWeekPayments(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", payments)
}

func (pc *PaymentController) UpdatePayment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.UpdatePaymentRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	payment, err := pc.payments.UpdatePayment(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payment updated successfully", payment)
}

func (pc *PaymentController) DeletePayment(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := pc.payments.DeletePayment(c.Request().Context(), actor, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payment deleted successfully", nil)
}

// GetWeeklyPaymentLedger is the Admin weekly payment report.
func (pc *PaymentController) GetWeeklyPaymentLedger(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	ledger, err := pc.rollups.WeeklyPaymentLedger(c.Request().Context(), actor, c.QueryParam("weekStart"), c.QueryParam("employeeId"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Payments retrieved successfully", ledger)
}
