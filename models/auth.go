// models/auth.go

package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is what a successful login, registration or rotation hands out.
type TokenPair struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"-"`
	RefreshExpiresAt time.Time `json:"-"`
}

// AuthResult bundles the signed-in user with fresh tokens.
type AuthResult struct {
	User   UserSummary `json:"user"`
	Tokens TokenPair   `json:"-"`
}
