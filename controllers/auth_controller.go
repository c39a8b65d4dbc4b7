// controllers/auth_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

const refreshCookieName = "refreshToken"

// AuthUseCases is what AuthController needs from the auth service.
type AuthUseCases interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
	Me(ctx context.Context, actor models.Actor) (*models.UserSummary, error)
}

// AuthController handles sign-up, sign-in and the refresh token cookie.
type AuthController struct {
	auth         AuthUseCases
	cookieSecure bool
}

// NewAuthController creates a new auth controller
func NewAuthController(auth AuthUseCases, cookieSecure bool) *AuthController {
	return &AuthController{auth: auth, cookieSecure: cookieSecure}
}

func (ac *AuthController) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := ac.auth.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	ac.setRefreshCookie(c, result.Tokens)
	return respond(c, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
}

func (ac *AuthController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}

	result, err := ac.auth.Login(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}

	ac.setRefreshCookie(c, result.Tokens)
	return respond(c, http.StatusOK, "Login successful", map[string]interface{}{
		"user":        result.User,
		"accessToken": result.Tokens.AccessToken,
	})
}

// RefreshToken rotates the refresh cookie and returns a new access token.
func (ac *AuthController) RefreshToken(c echo.Context) error {
	var token string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	tokens, err := ac.auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	ac.setRefreshCookie(c, *tokens)
	return respond(c, http.StatusOK, "Token refreshed", map[string]string{
		"accessToken": tokens.AccessToken,
	})
}

// Logout always clears the cookie; a request without credentials still succeeds.
func (ac *AuthController) Logout(c echo.Context) error {
	var refreshToken string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		refreshToken = cookie.Value
	}
	accessToken, _ := utils.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

	if err := ac.auth.Logout(c.Request().Context(), refreshToken, accessToken); err != nil {
		return respondError(c, err)
	}

	ac.clearRefreshCookie(c)
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

func (ac *AuthController) Me(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := ac.auth.Me(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, http.StatusOK, "Profile retrieved successfully", user)
}

func (ac *AuthController) refreshCookie(value string, expires time.Time) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if ac.cookieSecure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   ac.cookieSecure,
		SameSite: sameSite,
	}
}

func (ac *AuthController) setRefreshCookie(c echo.Context, tokens models.TokenPair) {
	c.SetCookie(ac.refreshCookie(tokens.RefreshToken, tokens.RefreshExpiresAt))
}

func (ac *AuthController) clearRefreshCookie(c echo.Context) {
	cookie := ac.refreshCookie("", time.Unix(0, 0))
	cookie.MaxAge = -1
	c.SetCookie(cookie)
}
