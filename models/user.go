// models/user.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// ParseRole converts a raw string into a Role, rejecting anything outside the known set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// IsStaff reports whether the role belongs to the back-office (Admin or Manager).
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleManager:
		return true
	case RoleEmployee:
		return false
	}
	return false
}

// User model
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	Role         Role               `json:"role" bson:"role"`
	RefreshToken string             `json:"-" bson:"refreshToken,omitempty"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Summary strips the user down to what other documents embed when joined.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserSummary is the public projection of a user.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email,omitempty"`
	Role  Role               `json:"role,omitempty"`
}

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   primitive.ObjectID
	Role Role
}

// UpdateUserRequest is the admin user edit payload. Empty password means unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=Admin Manager Employee"`
}

// UserUpdate carries the fields a user store should $set.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
}

// Response model
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
