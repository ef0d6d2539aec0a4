package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Commission entry statuses.
const (
	CommissionStatusPending   = "pending"
	CommissionStatusRequested = "requested"
	CommissionStatusPaid      = "paid"
	CommissionStatusVoided    = "voided"
)

// CommissionEntry is one ledger record of money owed to an earner for one
// sale. Amount and rate are snapshots taken at sale time; later policy
// changes never touch them. Only Status, RequestID and PaidAt mutate.
type CommissionEntry struct {
	ID               primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	EarnerID         primitive.ObjectID  `json:"earnerId" bson:"earnerId"`
	SaleID           string              `json:"saleId" bson:"saleId"`
	SaleAmount       float64             `json:"saleAmount" bson:"saleAmount"`
	RateApplied      float64             `json:"rateApplied" bson:"rateApplied"`
	CommissionAmount float64             `json:"commissionAmount" bson:"commissionAmount"`
	Status           string              `json:"status" bson:"status"`
	RequestID        *primitive.ObjectID `json:"requestId,omitempty" bson:"requestId,omitempty"`
	CreatedAt        time.Time           `json:"createdAt" bson:"createdAt"`
	PaidAt           *time.Time          `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// SaleEvent is the message the order subsystem delivers when a qualifying
// sale completes. EarnerRole is the role at sale time, supplied by the
// caller so recording does not need a second earner lookup.
type SaleEvent struct {
	EarnerID   string  `json:"earnerId" validate:"required"`
	EarnerRole string  `json:"earnerRole" validate:"required"`
	SaleID     string  `json:"saleId" validate:"required"`
	SaleAmount float64 `json:"saleAmount" validate:"required"`
}
