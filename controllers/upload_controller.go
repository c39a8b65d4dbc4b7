package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
)

type SignatureUseCases interface {
	UploadSignature(ctx context.Context, req models.SignatureUploadRequest) (*models.SignatureUploadResult, error)
}

type UploadController struct {
	signatures SignatureUseCases
}

func NewUploadController(signatures SignatureUseCases) *UploadController {
	return &UploadController{signatures: signatures}
}

// UploadSignature stores a signature image and returns its URL for use as a visit's
// signatureUrl.
func (uc *UploadController) UploadSignature(c echo.Context) error {
	var req models.SignatureUploadRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := uc.signatures.UploadSignature(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Signature uploaded successfully", result)
}
