package services

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
	"github.com/inetsl/fieldvisit_backend/utils"
)

// AuthSettings carries the token signing secret and lifetimes.
type AuthSettings struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// AuthService handles registration, login, token rotation and bearer resolution.
type AuthService struct {
	users    UserDirectory
	revoker  TokenRevoker
	settings AuthSettings
	now      Clock
	logger   *log.Logger
}

func NewAuthService(users UserDirectory, revoker TokenRevoker, settings AuthSettings, now Clock) *AuthService {
	return &AuthService{
		users:    users,
		revoker:  revoker,
		settings: settings,
		now:      now,
		logger:   log.New(os.Stdout, "[AUTH] ", log.LstdFlags),
	}
}

// Register creates an Employee account and signs it in.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, InvalidInput("email must be a valid email")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, Internal("Failed to hash password", err)
	}

	now := s.now()
	user := &models.User{
		Name:      utils.SanitizeInput(req.Name),
		Email:     email,
		Password:  hashed,
		Role:      models.RoleEmployee,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeError(err, "User not found", "Email already exists", "Failed to create user")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Printf("User registered - UserID: %s, Email: %s", user.ID.Hex(), user.Email)
	return &models.AuthResult{User: user.Summary(), Tokens: *tokens}, nil
}

// Login checks credentials and rotates the stored refresh token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, Unauthenticated("Invalid email or password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, Unauthenticated("Invalid email or password")
		}
		return nil, Internal("Failed to find user", err)
	}
	if err := utils.CheckPassword(req.Password, user.Password); err != nil {
		s.logger.Printf("Failed login attempt - Email: %s", email)
		return nil, Unauthenticated("Invalid email or password")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{User: user.Summary(), Tokens: *tokens}, nil
}

// Refresh exchanges the current refresh token for a new pair. Only the most recently
// issued refresh token of a user is accepted.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	if refreshToken == "" {
		return nil, Unauthenticated("Refresh token missing")
	}

	claims, err := utils.ParseToken(s.settings.Secret, refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, AccessDenied("Invalid or expired refresh token")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, AccessDenied("Invalid or expired refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError(err, "User not found", "", "Failed to find user")
	}
	if user.RefreshToken != refreshToken {
		return nil, AccessDenied("Refresh token invalid")
	}

	return s.issueTokens(ctx, user)
}

// Logout forgets the refresh token and revokes the access token, if any was presented.
// Missing credentials are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken != "" {
		user, err := s.users.FindByRefreshToken(ctx, refreshToken)
		switch {
		case err == nil:
			if err := s.users.SetRefreshToken(ctx, user.ID, ""); err != nil && !errors.Is(err, models.ErrNotFound) {
				return Internal("Failed to log out", err)
			}
			s.logger.Printf("User logout - UserID: %s", user.ID.Hex())
		case errors.Is(err, models.ErrNotFound):
		default:
			return Internal("Failed to log out", err)
		}
	}

	if accessToken == "" {
		return nil
	}
	claims, err := utils.ParseToken(s.settings.Secret, accessToken, utils.TokenTypeAccess)
	if err != nil {
		// Already unusable.
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.Id, claims.ExpiresAtTime()); err != nil {
		s.logger.Printf("Failed to revoke access token %s: %v", claims.Id, err)
	}
	return nil
}

// Authenticate resolves a bearer access token into the acting user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (models.Actor, error) {
	claims, err := utils.ParseToken(s.settings.Secret, accessToken, utils.TokenTypeAccess)
	if err != nil {
		if errors.Is(err, utils.ErrMissingToken) {
			return models.Actor{}, Unauthenticated("No token provided")
		}
		return models.Actor{}, Unauthenticated("Invalid or expired token")
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.Id)
	if err != nil {
		return models.Actor{}, Internal("Failed to check token", err)
	}
	if revoked {
		return models.Actor{}, Unauthenticated("Token has been invalidated")
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Actor{}, Unauthenticated("Invalid or expired token")
	}

	// The role comes from the stored account so promotions and deletions apply at once.
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.Actor{}, Unauthenticated("User not found")
		}
		return models.Actor{}, Internal("Failed to find user", err)
	}
	role, err := models.ParseRole(string(user.Role))
	if err != nil {
		return models.Actor{}, AccessDenied("Access denied")
	}
	return models.Actor{ID: user.ID, Role: role}, nil
}

// Me returns the profile of the acting user.
func (s *AuthService) Me(ctx context.Context, actor models.Actor) (*models.UserSummary, error) {
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, storeError(err, "User not found", "", "Failed to find user")
	}
	summary := user.Summary()
	return &summary, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	now := s.now()
	access, _, err := utils.GenerateToken(s.settings.Secret, user.ID.Hex(), string(user.Role), utils.TokenTypeAccess, now, s.settings.AccessTTL)
	if err != nil {
		return nil, Internal("Failed to generate token", err)
	}
	refresh, refreshClaims, err := utils.GenerateToken(s.settings.Secret, user.ID.Hex(), string(user.Role), utils.TokenTypeRefresh, now, s.settings.RefreshTTL)
	if err != nil {
		return nil, Internal("Failed to generate token", err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, storeError(err, "User not found", "", "Failed to store refresh token")
	}
	user.RefreshToken = refresh

	return &models.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshClaims.ExpiresAtTime(),
	}, nil
}
