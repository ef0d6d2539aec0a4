package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aquadrop/commission_backend/models"
	"github.com/aquadrop/commission_backend/utils"
)

// CommissionService turns sale events into commission ledger entries,
// applying the policy in force at sale time.
type CommissionService struct {
	policies *PolicyService
	entries  CommissionStore
	earners  EarnerStore
}

func NewCommissionService(policies *PolicyService, entries CommissionStore, earners EarnerStore) *CommissionService {
	return &CommissionService{policies: policies, entries: entries, earners: earners}
}

// RecordSale creates a pending commission entry for a qualifying sale.
// Sales by excluded roles return (nil, nil): a deliberate no-op, not an
// error. Redelivery of the same saleId returns the already-recorded entry,
// never a second one.
func (s *CommissionService) RecordSale(ctx context.Context, sale models.SaleEvent) (*models.CommissionEntry, error) {
	if sale.SaleAmount <= 0 {
		return nil, ErrInvalidSaleAmount
	}

	earnerID, err := primitive.ObjectIDFromHex(sale.EarnerID)
	if err != nil {
		return nil, ErrUnknownEarner
	}
	if _, err := s.earners.FindByID(ctx, earnerID); err != nil {
		return nil, err
	}

	policy, err := s.policies.Get(ctx)
	if err != nil {
		return nil, err
	}
	if policy.IsRoleExcluded(sale.EarnerRole) {
		return nil, nil
	}

	entry := models.CommissionEntry{
		ID:               primitive.NewObjectID(),
		EarnerID:         earnerID,
		SaleID:           sale.SaleID,
		SaleAmount:       sale.SaleAmount,
		RateApplied:      policy.Rate,
		CommissionAmount: utils.CommissionAmount(sale.SaleAmount, policy.Rate),
		Status:           models.CommissionStatusPending,
		CreatedAt:        time.Now(),
	}

	if err := s.entries.Insert(ctx, entry); err != nil {
		if errors.Is(err, ErrDuplicateSale) {
			return s.entries.FindBySale(ctx, earnerID, sale.SaleID)
		}
		return nil, err
	}
	return &entry, nil
}

// VoidSale voids the pending commission entry for a cancelled or refunded
// sale. Entries that already entered a withdrawal, or were paid, are never
// voided.
func (s *CommissionService) VoidSale(ctx context.Context, earnerID primitive.ObjectID, saleID string) (*models.CommissionEntry, error) {
	return s.entries.VoidPending(ctx, earnerID, saleID)
}

// EntriesForEarner lists an earner's ledger, newest first, optionally
// filtered by status.
func (s *CommissionService) EntriesForEarner(ctx context.Context, earnerID primitive.ObjectID, status string, skip, limit int64) ([]models.CommissionEntry, error) {
	return s.entries.FindByEarner(ctx, earnerID, status, skip, limit)
}
