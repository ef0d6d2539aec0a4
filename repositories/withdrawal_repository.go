package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/services"
)

type WithdrawalRepository struct {
	collection *mongo.Collection
}

func NewWithdrawalRepository(db *mongo.Database) *WithdrawalRepository {
	return &WithdrawalRepository{collection: db.Collection("withdrawal_requests")}
}

func (r *WithdrawalRepository) Insert(ctx context.Context, request models.WithdrawalRequest) error {
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *WithdrawalRepository) FindOutstanding(ctx context.Context, earnerID primitive.ObjectID) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := r.collection.FindOne(ctx, bson.M{
		"earnerId": earnerID,
		"status":   models.WithdrawalStatusSubmitted,
	}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *WithdrawalRepository) FindByEarner(ctx context.Context, earnerID primitive.ObjectID) ([]models.WithdrawalRequest, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"earnerId": earnerID},
		options.Find().SetSort(bson.M{"requestedAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requests []models.WithdrawalRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status string, skip, limit int64) ([]models.WithdrawalRequest, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.M{"requestedAt": -1}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var requests []models.WithdrawalRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Settle compare-and-swaps the request out of "submitted" so two
// operators cannot decide it differently. The filter also matches the
// target status itself, so retrying the same outcome after a failed
// ledger transition re-runs the repair instead of dead-ending.
func (r *WithdrawalRepository) Settle(ctx context.Context, id primitive.ObjectID, status string, processedAt time.Time, adminID *primitive.ObjectID, note string) error {
	update := bson.M{
		"status":      status,
		"processedAt": processedAt,
	}
	if adminID != nil {
		update["adminId"] = *adminID
	}
	if note != "" {
		update["adminNote"] = note
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": []string{models.WithdrawalStatusSubmitted, status}},
		},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		if _, findErr := r.FindByID(ctx, id); findErr != nil {
			return findErr
		}
		return services.ErrRequestNotSettleable
	}
	return nil
}
