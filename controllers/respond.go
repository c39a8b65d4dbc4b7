package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/middleware"
	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/services"
)

// statusOf maps a service error kind to its HTTP status.
func statusOf(kind services.ErrorKind) int {
	switch kind {
	case services.KindInvalidInput:
		return http.StatusBadRequest
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindAccessDenied:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUpstreamFailure:
		return http.StatusBadGateway
	case services.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// respondError renders err in the response envelope. Internal failures are logged
// with their cause and answered with a generic message.
func respondError(c echo.Context, err error) error {
	kind := services.KindOf(err)
	status := statusOf(kind)
	message := services.MessageOf(err)

	if kind == services.KindInternal || kind == services.KindUpstreamFailure {
		log.Printf("%s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	if kind == services.KindInternal {
		message = "Internal server error"
	}
	return respond(c, status, message, nil)
}

// HTTPErrorHandler renders errors that escape handlers, including Echo's own (unknown
// route, bad method, body too large), in the response envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = respond(c, he.Code, message, nil)
		}
	} else {
		err = respondError(c, err)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// bind decodes the request into req, reporting malformed input as InvalidInput.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return services.InvalidInput("Invalid request body")
	}
	return nil
}

func currentActor(c echo.Context) (models.Actor, error) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return models.Actor{}, services.Unauthenticated("Authentication required")
	}
	return actor, nil
}
