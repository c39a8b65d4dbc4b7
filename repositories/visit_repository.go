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

type VisitRepository struct {
	collection *mongo.Collection
}

func NewVisitRepository(db *mongo.Database) *VisitRepository {
	return &VisitRepository{
		collection: db.Collection("visits"),
	}
}

func (r *VisitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Visit, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var visit models.Visit
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&visit); err != nil {
		return nil, mapError(err)
	}
	return &visit, nil
}

func (r *VisitRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Visit, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

// Find returns the visits of filter.WeekStart, narrowed by employee and company when set.
func (r *VisitRepository) Find(ctx context.Context, filter models.VisitFilter) ([]models.Visit, error) {
	query := bson.M{"weekStart": filter.WeekStart}
	if filter.Employee != nil {
		query["employee"] = *filter.Employee
	}
	if filter.Company != nil {
		query["company"] = *filter.Company
	}
	return r.find(ctx, query)
}

func (r *VisitRepository) Create(ctx context.Context, visit *models.Visit) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if visit.ID.IsZero() {
		visit.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, visit)
	return mapError(err)
}

func (r *VisitRepository) Update(ctx context.Context, id primitive.ObjectID, update models.VisitUpdate) (*models.Visit, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if update.ArrivalTime != nil {
		set["arrivalTime"] = *update.ArrivalTime
	}
	if update.VisitedAt != nil {
		set["visitedAt"] = *update.VisitedAt
	}
	if update.WeekStart != nil {
		set["weekStart"] = *update.WeekStart
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}
	if update.SignatureURL != nil {
		set["signatureUrl"] = *update.SignatureURL
	}

	var visit models.Visit
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&visit)
	if err != nil {
		return nil, mapError(err)
	}
	return &visit, nil
}

func (r *VisitRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *VisitRepository) find(ctx context.Context, filter bson.M) ([]models.Visit, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	visits := []models.Visit{}
	if err := cursor.All(ctx, &visits); err != nil {
		return nil, err
	}
	return visits, nil
}
