package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/utils"
)

// WithdrawalService decides whether a withdrawal may be requested right
// now and, if so, atomically claims the earner's pending balance. It also
// settles requests on behalf of the payout operator.
type WithdrawalService struct {
	policies *PolicyService
	entries  CommissionStore
	requests WithdrawalStore
	locker   EarnerLocker
}

func NewWithdrawalService(policies *PolicyService, entries CommissionStore, requests WithdrawalStore, locker EarnerLocker) *WithdrawalService {
	return &WithdrawalService{policies: policies, entries: entries, requests: requests, locker: locker}
}

// RequestWithdrawal claims all of the earner's pending commission entries
// into a new submitted withdrawal request, provided asOf falls inside the
// policy's withdrawal window and no request is already outstanding.
//
// The read-then-claim sequence is serialized per earner through the
// locker; the claim itself is a compare-and-swap on entry status, so a
// concurrently recorded entry is either fully included or left pending for
// the next window, and two racing requests can never claim the same entry.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, earnerID primitive.ObjectID, asOf time.Time) (*models.WithdrawalRequest, error) {
	policy, err := s.policies.Get(ctx)
	if err != nil {
		return nil, err
	}

	window := policy.WithdrawalWindow
	if !utils.InWithdrawalWindow(asOf, window) {
		return nil, &OutsideWindowError{
			Window:    window,
			NextStart: utils.NextWindowStart(asOf, window),
		}
	}

	unlock, err := s.locker.Lock(ctx, earnerID.Hex())
	if err != nil {
		return nil, err
	}
	defer unlock()

	outstanding, err := s.requests.FindOutstanding(ctx, earnerID)
	if err != nil {
		return nil, err
	}
	if outstanding != nil {
		return nil, ErrRequestAlreadyOutstanding
	}

	requestID := primitive.NewObjectID()
	claimed, err := s.entries.ClaimPending(ctx, earnerID, requestID)
	if err != nil {
		return nil, err
	}
	if len(claimed) == 0 {
		// A racing request may have drained the balance between the
		// outstanding check and the claim; re-read once before giving up.
		claimed, err = s.entries.ClaimPending(ctx, earnerID, requestID)
		if err != nil {
			return nil, err
		}
		if len(claimed) == 0 {
			return nil, ErrNoPendingBalance
		}
	}

	var total float64
	entryIDs := make([]primitive.ObjectID, 0, len(claimed))
	for _, entry := range claimed {
		total += entry.CommissionAmount
		entryIDs = append(entryIDs, entry.ID)
	}

	request := models.WithdrawalRequest{
		ID:          requestID,
		Reference:   utils.GenerateWithdrawalReference(),
		EarnerID:    earnerID,
		EntryIDs:    entryIDs,
		TotalAmount: utils.RoundToCents(total),
		Status:      models.WithdrawalStatusSubmitted,
		RequestedAt: asOf,
	}

	if err := s.requests.Insert(ctx, request); err != nil {
		// Return the claimed entries to the pending balance; losing the
		// release only delays them until an operator rejects the orphan.
		if releaseErr := s.entries.ReleaseClaim(ctx, requestID); releaseErr != nil {
			log.Printf("Failed to release claim %s after insert failure: %v", requestID.Hex(), releaseErr)
		}
		return nil, err
	}
	return &request, nil
}

// SettleWithdrawal records the payout operator's decision on a submitted
// request. Approval pays out the claimed entries; rejection returns them
// to the earner's pending balance. The request is moved to its terminal
// status first, then the ledger follows; a request that already holds the
// other outcome refuses, while retrying the same outcome is idempotent so
// a failed ledger transition can be repaired by settling again.
func (s *WithdrawalService) SettleWithdrawal(ctx context.Context, requestID primitive.ObjectID, outcome string, adminID *primitive.ObjectID, note string) (*models.WithdrawalRequest, error) {
	var status string
	switch outcome {
	case models.WithdrawalOutcomeApproved:
		status = models.WithdrawalStatusApproved
	case models.WithdrawalOutcomeRejected:
		status = models.WithdrawalStatusRejected
	default:
		return nil, ErrInvalidOutcome
	}

	processedAt := time.Now()
	if err := s.requests.Settle(ctx, requestID, status, processedAt, adminID, note); err != nil {
		return nil, err
	}

	var ledgerErr error
	if status == models.WithdrawalStatusApproved {
		ledgerErr = s.entries.MarkPaid(ctx, requestID, processedAt)
	} else {
		ledgerErr = s.entries.ReleaseClaim(ctx, requestID)
	}
	if ledgerErr != nil {
		return nil, ledgerErr
	}

	return s.requests.FindByID(ctx, requestID)
}

// StateForEarner derives the earner's withdrawal state from the ledger and
// any open request, and reports when the window next opens.
func (s *WithdrawalService) StateForEarner(ctx context.Context, earnerID primitive.ObjectID, asOf time.Time) (string, time.Time, error) {
	policy, err := s.policies.Get(ctx)
	if err != nil {
		return "", time.Time{}, err
	}

	entries, err := s.entries.FindByEarner(ctx, earnerID, models.CommissionStatusPending, 0, 0)
	if err != nil {
		return "", time.Time{}, err
	}

	outstanding, err := s.requests.FindOutstanding(ctx, earnerID)
	if err != nil {
		return "", time.Time{}, err
	}

	state := DeriveWithdrawalState(entries, outstanding, asOf, policy.WithdrawalWindow)
	return state, utils.NextWindowStart(asOf, policy.WithdrawalWindow), nil
}

// HistoryForEarner lists the earner's withdrawal requests, newest first.
func (s *WithdrawalService) HistoryForEarner(ctx context.Context, earnerID primitive.ObjectID) ([]models.WithdrawalRequest, error) {
	return s.requests.FindByEarner(ctx, earnerID)
}

// RequestsByStatus lists withdrawal requests for the admin dashboard.
func (s *WithdrawalService) RequestsByStatus(ctx context.Context, status string, skip, limit int64) ([]models.WithdrawalRequest, int64, error) {
	return s.requests.FindByStatus(ctx, status, skip, limit)
}

// DeriveWithdrawalState is the pure state derivation behind the earner
// dashboard: the state machine lives in the ledger statuses, not in a
// stored field.
func DeriveWithdrawalState(entries []models.CommissionEntry, openRequest *models.WithdrawalRequest, asOf time.Time, window models.WithdrawalWindow) string {
	if openRequest != nil && openRequest.Status == models.WithdrawalStatusSubmitted {
		return models.WithdrawalStateRequestOutstanding
	}

	hasPending := false
	for _, entry := range entries {
		if entry.Status == models.CommissionStatusPending {
			hasPending = true
			break
		}
	}
	if !hasPending {
		return models.WithdrawalStateNoPendingBalance
	}

	if utils.InWithdrawalWindow(asOf, window) {
		return models.WithdrawalStatePendingInsideWindow
	}
	return models.WithdrawalStatePendingOutsideWindow
}
