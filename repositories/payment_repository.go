package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inetsl/fieldvisit_backend/models"
)

// PaymentRepository stores one payment per visit; the unique index on "visit" makes a
// second insert fail with models.ErrDuplicate.
type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("payments"),
	}
}

func (r *PaymentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var payment models.Payment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&payment); err != nil {
		return nil, mapError(err)
	}
	return &payment, nil
}

func (r *PaymentRepository) Find(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if !filter.WeekStart.IsZero() {
		query["weekStart"] = filter.WeekStart
	}
	if filter.Employee != nil {
		query["employee"] = *filter.Employee
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, payment)
	return mapError(err)
}

func (r *PaymentRepository) Update(ctx context.Context, id primitive.ObjectID, update models.PaymentUpdate) (*models.Payment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if update.FromLocation != nil {
		set["fromLocation"] = *update.FromLocation
	}
	if update.Cost != nil {
		set["cost"] = *update.Cost
	}

	var payment models.Payment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&payment)
	if err != nil {
		return nil, mapError(err)
	}
	return &payment, nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapError(err)
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteByVisit removes the payment of a visit. A visit without payment is not an error.
func (r *PaymentRepository) DeleteByVisit(ctx context.Context, visitID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := r.collection.DeleteMany(ctx, bson.M{"visit": visitID})
	return mapError(err)
}
