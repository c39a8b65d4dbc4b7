package services

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// UserService is the Admin-only account management surface.
type UserService struct {
	users  UserDirectory
	policy AccessPolicy
	logger *log.Logger
}

func NewUserService(users UserDirectory) *UserService {
	return &UserService{
		users:  users,
		logger: log.New(os.Stdout, "[USERS] ", log.LstdFlags),
	}
}

func (s *UserService) ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if err := s.policy.CanManageUsers(actor).Err(); err != nil {
		return nil, err
	}
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, Internal("Failed to load users", err)
	}
	return users, nil
}

// UpdateUser edits name, email, password or role. An empty password leaves it unchanged.
func (s *UserService) UpdateUser(ctx context.Context, actor models.Actor, id string, req models.UpdateUserRequest) (*models.UserSummary, error) {
	if err := s.policy.CanManageUsers(actor).Err(); err != nil {
		return nil, err
	}
	userID, err := parseID(id, "user id")
	if err != nil {
		return nil, err
	}

	if req.Name == nil && req.Email == nil && req.Password == nil && req.Role == nil {
		return nil, InvalidInput("At least one field must be provided for update")
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) == "" {
		req.Password = nil
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	var update models.UserUpdate
	if req.Name != nil {
		name := utils.SanitizeInput(*req.Name)
		update.Name = &name
	}
	if req.Email != nil {
		email, err := utils.SanitizeEmail(*req.Email)
		if err != nil {
			return nil, InvalidInput("email must be a valid email")
		}
		update.Email = &email
	}
	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, Internal("Failed to hash password", err)
		}
		update.Password = &hashed
	}
	if req.Role != nil {
		role, err := models.ParseRole(*req.Role)
		if err != nil {
			return nil, InvalidInput("role must be one of [Admin Manager Employee]")
		}
		update.Role = &role
	}

	user, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, storeError(err, "User not found", "Email already in use", "Failed to update user")
	}

	s.logger.Printf("User updated - UserID: %s, By: %s", userID.Hex(), actor.ID.Hex())
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) DeleteUser(ctx context.Context, actor models.Actor, id string) error {
	if err := s.policy.CanManageUsers(actor).Err(); err != nil {
		return err
	}
	userID, err := parseID(id, "user id")
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return storeError(err, "User not found", "", "Failed to delete user")
	}

	s.logger.Printf("User deleted - UserID: %s, By: %s", userID.Hex(), actor.ID.Hex())
	return nil
}
