package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aquadrop/commission_backend/models"
)

// The policy is a singleton document; every update replaces it whole.
const policyDocID = "current"

type policyDoc struct {
	ID                      string `bson:"_id"`
	models.CommissionPolicy `bson:",inline"`
}

type PolicyRepository struct {
	collection *mongo.Collection
}

func NewPolicyRepository(db *mongo.Database) *PolicyRepository {
	return &PolicyRepository{collection: db.Collection("commission_policy")}
}

func (r *PolicyRepository) Get(ctx context.Context) (*models.CommissionPolicy, error) {
	var doc policyDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": policyDocID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc.CommissionPolicy, nil
}

func (r *PolicyRepository) Replace(ctx context.Context, policy models.CommissionPolicy) error {
	doc := policyDoc{ID: policyDocID, CommissionPolicy: policy}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": policyDocID}, doc,
		options.Replace().SetUpsert(true))
	return err
}
