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

// CommissionRepository is the Mongo-backed commission ledger. The unique
// index on (earnerId, saleId) created at startup makes duplicate sale
// delivery an insert collision instead of a second entry, and the status
// transitions are single filtered updates so they stay atomic per
// document.
type CommissionRepository struct {
	collection *mongo.Collection
}

func NewCommissionRepository(db *mongo.Database) *CommissionRepository {
	return &CommissionRepository{collection: db.Collection("commission_entries")}
}

func (r *CommissionRepository) Insert(ctx context.Context, entry models.CommissionEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	if mongo.IsDuplicateKeyError(err) {
		return services.ErrDuplicateSale
	}
	return err
}

func (r *CommissionRepository) FindBySale(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error) {
	var entry models.CommissionEntry
	err := r.collection.FindOne(ctx, bson.M{"earnerId": earnerID, "saleId": saleID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, services.ErrSaleNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *CommissionRepository) FindByEarner(ctx context.Context, earnerID primitive.ObjectID, status string, skip, limit int64) ([]models.CommissionEntry, error) {
	filter := bson.M{"earnerId": earnerID}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.CommissionEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *CommissionRepository) ClaimPending(ctx context.Context, earnerID, requestID primitive.ObjectID) ([]models.CommissionEntry, error) {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"earnerId": earnerID, "status": models.CommissionStatusPending},
		bson.M{"$set": bson.M{
			"status":    models.CommissionStatusRequested,
			"requestId": requestID,
		}},
	)
	if err != nil {
		return nil, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{"requestId": requestID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var claimed []models.CommissionEntry
	if err := cursor.All(ctx, &claimed); err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *CommissionRepository) MarkPaid(ctx context.Context, requestID primitive.ObjectID, paidAt time.Time) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"requestId": requestID, "status": models.CommissionStatusRequested},
		bson.M{"$set": bson.M{
			"status": models.CommissionStatusPaid,
			"paidAt": paidAt,
		}},
	)
	return err
}

func (r *CommissionRepository) ReleaseClaim(ctx context.Context, requestID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"requestId": requestID, "status": models.CommissionStatusRequested},
		bson.M{
			"$set":   bson.M{"status": models.CommissionStatusPending},
			"$unset": bson.M{"requestId": ""},
		},
	)
	return err
}

func (r *CommissionRepository) VoidPending(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error) {
	var entry models.CommissionEntry
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"earnerId": earnerID, "saleId": saleID, "status": models.CommissionStatusPending},
		bson.M{"$set": bson.M{"status": models.CommissionStatusVoided}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&entry)

	if err == nil {
		return &entry, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Distinguish a sale that was never recorded from one that already
	// left the pending state.
	if _, findErr := r.FindBySale(ctx, earnerID, saleID); findErr != nil {
		return nil, findErr
	}
	return nil, services.ErrEntryNotVoidable
}
