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

// CompanyRepository stores the client companies employees visit.
type CompanyRepository struct {
	collection *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{
		collection: db.Collection("companies"),
	}
}

var companySort = options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

func (r *CompanyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Company, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var company models.Company
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&company); err != nil {
		return nil, mapError(err)
	}
	return &company, nil
}

func (r *CompanyRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Company, error) {
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *CompanyRepository) FindAll(ctx context.Context) ([]models.Company, error) {
	return r.find(ctx, bson.M{})
}

func (r *CompanyRepository) FindAssignedTo(ctx context.Context, userID primitive.ObjectID) ([]models.Company, error) {
	return r.find(ctx, bson.M{"assignedUser": userID})
}

func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if company.ID.IsZero() {
		company.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, company)
	return mapError(err)
}

func (r *CompanyRepository) Update(ctx context.Context, id primitive.ObjectID, update models.CompanyUpdate) (*models.Company, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.AddressLink != nil {
		set["addressLink"] = *update.AddressLink
	}
	if update.ContactPerson != nil {
		set["contactPerson"] = *update.ContactPerson
	}
	if update.ContactNumber != nil {
		set["contactNumber"] = *update.ContactNumber
	}
	switch {
	case update.ClearAssignedUser:
		set["assignedUser"] = nil
	case update.AssignedUser != nil:
		set["assignedUser"] = *update.AssignedUser
	}

	var company models.Company
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&company)
	if err != nil {
		return nil, mapError(err)
	}
	return &company, nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
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

func (r *CompanyRepository) find(ctx context.Context, filter bson.M) ([]models.Company, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, companySort)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	companies := []models.Company{}
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}
