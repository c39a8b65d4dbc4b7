// utils/auth.go
package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrMissingToken = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid or expired token")
)

// TokenClaims is the JWT payload for both access and refresh tokens.
type TokenClaims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	TokenType string `json:"tokenType"`
	jwt.StandardClaims
}

// Valid implements jwt.Claims. A missing expiry is rejected.
func (c TokenClaims) Valid() error {
	now := time.Now().Unix()
	if c.ExpiresAt == 0 || now > c.ExpiresAt {
		return errors.New("token is expired")
	}
	if c.NotBefore > 0 && now < c.NotBefore {
		return errors.New("token used before valid")
	}
	return nil
}

// ExpiresAtTime returns the expiry as a time.Time.
func (c TokenClaims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0)
}

// GenerateToken signs an HS256 token of the given type valid for ttl.
func GenerateToken(secret, userID, role, tokenType string, issuedAt time.Time, ttl time.Duration) (string, TokenClaims, error) {
	claims := TokenClaims{
		UserID:    userID,
		Role:      role,
		TokenType: tokenType,
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.NewString(),
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: issuedAt.Add(ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", TokenClaims{}, err
	}
	return signed, claims, nil
}

// ParseToken validates signature, algorithm, expiry and token type.
func ParseToken(secret, tokenString, tokenType string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// BearerToken extracts the token from a "Bearer <token>" Authorization header.
func BearerToken(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(authHeader[len("Bearer "):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
