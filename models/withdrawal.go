package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal request statuses.
const (
	WithdrawalStatusSubmitted = "submitted"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusRejected  = "rejected"
)

// Withdrawal settlement outcomes accepted from the admin dashboard.
const (
	WithdrawalOutcomeApproved = "approved"
	WithdrawalOutcomeRejected = "rejected"
)

// WithdrawalRequest claims a set of pending commission entries for payout.
// An earner can have at most one request in "submitted" at a time; the
// referenced entries were all "pending" at request time and TotalAmount is
// the sum of their commission amounts at that moment.
type WithdrawalRequest struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Reference   string               `json:"reference" bson:"reference"`
	EarnerID    primitive.ObjectID   `json:"earnerId" bson:"earnerId"`
	EntryIDs    []primitive.ObjectID `json:"entryIds" bson:"entryIds"`
	TotalAmount float64              `json:"totalAmount" bson:"totalAmount"`
	Status      string               `json:"status" bson:"status"`
	RequestedAt time.Time            `json:"requestedAt" bson:"requestedAt"`
	ProcessedAt *time.Time           `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	AdminID     *primitive.ObjectID  `json:"adminId,omitempty" bson:"adminId,omitempty"`
	AdminNote   string               `json:"adminNote,omitempty" bson:"adminNote,omitempty"`
}

// Earner withdrawal states derived from the commission ledger and the
// presence of an open request. Not stored; recomputed on demand.
const (
	WithdrawalStateNoPendingBalance     = "no_pending_balance"
	WithdrawalStatePendingOutsideWindow = "pending_outside_window"
	WithdrawalStatePendingInsideWindow  = "pending_inside_window"
	WithdrawalStateRequestOutstanding   = "request_outstanding"
)
