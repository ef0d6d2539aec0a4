package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/models"
)

// PolicyStore persists the singleton commission policy.
type PolicyStore interface {
	// Get returns the stored policy, or nil if none has ever been saved.
	Get(ctx context.Context) (*models.CommissionPolicy, error)
	// Replace atomically swaps the stored policy for the given one.
	Replace(ctx context.Context, policy models.CommissionPolicy) error
}

// CommissionStore owns the commission ledger. Implementations must enforce
// a uniqueness constraint on (earnerId, saleId) so duplicate sale delivery
// surfaces as ErrDuplicateSale rather than a second entry, and must make
// ClaimPending/MarkPaid/ReleaseClaim per-document atomic status swaps.
type CommissionStore interface {
	Insert(ctx context.Context, entry models.CommissionEntry) error
	FindBySale(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error)
	// FindByEarner lists an earner's entries, newest first. An empty status
	// matches all statuses; limit 0 means no limit.
	FindByEarner(ctx context.Context, earnerID primitive.ObjectID, status string, skip, limit int64) ([]models.CommissionEntry, error)
	// ClaimPending transitions every pending entry of the earner to
	// "requested", stamping requestID, and returns the claimed entries.
	// Entries that were concurrently claimed or recorded are not included.
	ClaimPending(ctx context.Context, earnerID, requestID primitive.ObjectID) ([]models.CommissionEntry, error)
	// MarkPaid transitions entries claimed by requestID to "paid".
	MarkPaid(ctx context.Context, requestID primitive.ObjectID, paidAt time.Time) error
	// ReleaseClaim returns entries claimed by requestID to "pending".
	ReleaseClaim(ctx context.Context, requestID primitive.ObjectID) error
	// VoidPending transitions a pending entry to "voided". Returns
	// ErrSaleNotFound if no entry exists, ErrEntryNotVoidable if the entry
	// has already left "pending".
	VoidPending(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error)
}

// WithdrawalStore owns withdrawal requests.
type WithdrawalStore interface {
	Insert(ctx context.Context, request models.WithdrawalRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.WithdrawalRequest, error)
	// FindOutstanding returns the earner's submitted request, or nil.
	FindOutstanding(ctx context.Context, earnerID primitive.ObjectID) (*models.WithdrawalRequest, error)
	FindByEarner(ctx context.Context, earnerID primitive.ObjectID) ([]models.WithdrawalRequest, error)
	FindByStatus(ctx context.Context, status string, skip, limit int64) ([]models.WithdrawalRequest, int64, error)
	// Settle moves a request out of "submitted" into the given terminal
	// status. Implementations must compare-and-swap on the status,
	// accepting "submitted" or the target status itself (so a retry of
	// the same outcome can repair a failed ledger transition), and return
	// ErrRequestNotSettleable when the request already holds the other
	// terminal status, ErrRequestNotFound when it does not exist.
	Settle(ctx context.Context, id primitive.ObjectID, status string, processedAt time.Time, adminID *primitive.ObjectID, note string) error
}

// EarnerStore resolves earner accounts. Returns ErrUnknownEarner when the
// id cannot be resolved.
type EarnerStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Earner, error)
}

// EarnerLocker serializes the withdrawal read-then-claim sequence per
// earner. Lock blocks until the lock is held or ctx is done, and returns
// the release function.
type EarnerLocker interface {
	Lock(ctx context.Context, earnerID string) (func(), error)
}
