// controllers/user_controller.go
package controllers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
)

type UserUseCases interface {
	ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error)
	UpdateUser(ctx context.Context, actor models.Actor, id string, req models.UpdateUserRequest) (*models.UserSummary, error)
	DeleteUser(ctx context.Context, actor models.Actor, id string) error
}

// UserController contains user management logic
type UserController struct {
	users UserUseCases
}

// NewUserController creates a new user controller
func NewUserController(users UserUseCases) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetAllUsers(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	users, err := uc.users.ListUsers(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", users)
}

func (uc *UserController) UpdateUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req models.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	user, err := uc.users.UpdateUser(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}

func (uc *UserController) DeleteUser(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := uc.users.DeleteUser(c.Request().Context(), actor, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "User deleted", nil)
}
