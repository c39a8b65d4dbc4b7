package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/inetsl/fieldvisit_backend/models"
)

// Clock returns the current instant. Services call it once per use-case.
type Clock func() time.Time

// VisitStore persists visits. Lookups by id return models.ErrNotFound when absent.
type VisitStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Visit, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Visit, error)
	Find(ctx context.Context, filter models.VisitFilter) ([]models.Visit, error)
	Create(ctx context.Context, visit *models.Visit) error
	Update(ctx context.Context, id primitive.ObjectID, update models.VisitUpdate) (*models.Visit, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PaymentStore persists payments. Create returns models.ErrDuplicate when the visit
// already has a payment.
type PaymentStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	Find(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, id primitive.ObjectID, update models.PaymentUpdate) (*models.Payment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByVisit(ctx context.Context, visitID primitive.ObjectID) error
}

// CompanyDirectory persists companies. Create and Update return models.ErrDuplicate on
// a name clash.
type CompanyDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error)
	FindAll(ctx context.Context) ([]models.Company, error)
	FindAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error)
	Create(ctx context.Context, company *models.Company) error
	Update(ctx context.Context, id primitive.ObjectID, update models.CompanyUpdate) (*models.Company, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserDirectory persists user accounts. Create and Update return models.ErrDuplicate
// on an email clash.
type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) (*models.User, error)
	SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Transactor runs fn as one atomic unit of work.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenRevoker remembers access tokens that were signed out before they expired.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// SignatureStore saves a signature image and returns its public URL.
type SignatureStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}
