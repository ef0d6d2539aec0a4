package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/services"
)

type EarnerRepository struct {
	collection *mongo.Collection
}

func NewEarnerRepository(db *mongo.Database) *EarnerRepository {
	return &EarnerRepository{collection: db.Collection("earners")}
}

// Insert creates a new earner account. The unique email index turns a
// duplicate registration into ErrEmailTaken.
func (r *EarnerRepository) Insert(ctx context.Context, earner models.Earner) error {
	_, err := r.collection.InsertOne(ctx, earner)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrEmailTaken
	}
	return err
}

func (r *EarnerRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Earner, error) {
	var earner models.Earner
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&earner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrUnknownEarner
		}
		return nil, err
	}
	return &earner, nil
}

func (r *EarnerRepository) FindByEmail(ctx context.Context, email string) (*models.Earner, error) {
	var earner models.Earner
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&earner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrUnknownEarner
		}
		return nil, err
	}
	return &earner, nil
}

func (r *EarnerRepository) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"updatedAt": time.Now()}},
	)
	return err
}
