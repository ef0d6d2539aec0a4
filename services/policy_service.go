package services

import (
	"context"
	"strings"
	"time"

	"github.com/aquadrop/commission_backend/models"
)

// PolicyService is the single writer for the commission policy. Both the
// commission calculator and the withdrawal gate read through it; each
// operation takes one snapshot and uses it throughout, so a concurrent
// update never applies retroactively to an in-flight calculation.
type PolicyService struct {
	store PolicyStore
}

func NewPolicyService(store PolicyStore) *PolicyService {
	return &PolicyService{store: store}
}

// Get returns the current policy. It never fails on an empty store; the
// built-in default is returned until an admin saves a policy.
func (s *PolicyService) Get(ctx context.Context) (models.CommissionPolicy, error) {
	policy, err := s.store.Get(ctx)
	if err != nil {
		return models.CommissionPolicy{}, err
	}
	if policy == nil {
		return models.DefaultCommissionPolicy(), nil
	}
	return *policy, nil
}

// Update applies a partial policy change. Validation failures leave the
// stored policy untouched; on success the whole policy is replaced
// atomically and updatedAt is stamped. Existing commission entries keep
// their snapshotted rate.
func (s *PolicyService) Update(ctx context.Context, update models.PolicyUpdate) (models.CommissionPolicy, error) {
	policy, err := s.Get(ctx)
	if err != nil {
		return models.CommissionPolicy{}, err
	}

	if update.Rate != nil {
		if *update.Rate < 0 || *update.Rate > 100 {
			return models.CommissionPolicy{}, ErrInvalidRate
		}
		policy.Rate = *update.Rate
	}

	if update.ExcludedRoles != nil {
		roles, err := normalizeRoles(*update.ExcludedRoles)
		if err != nil {
			return models.CommissionPolicy{}, err
		}
		policy.ExcludedRoles = roles
	}

	if update.WithdrawalWindow != nil {
		window := *update.WithdrawalWindow
		if window.StartDay < 1 || window.EndDay > 31 || window.StartDay > window.EndDay {
			return models.CommissionPolicy{}, ErrInvalidWindow
		}
		policy.WithdrawalWindow = window
	}

	policy.UpdatedAt = time.Now()

	if err := s.store.Replace(ctx, policy); err != nil {
		return models.CommissionPolicy{}, err
	}
	return policy, nil
}

// normalizeRoles trims, deduplicates and validates the excluded-role list.
// Free-form role strings are rejected at this boundary; only the platform's
// known role identifiers are accepted.
func normalizeRoles(roles []string) ([]string, error) {
	normalized := make([]string, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	for _, role := range roles {
		role = strings.TrimSpace(role)
		if role == "" || !models.KnownRole(role) {
			return nil, ErrInvalidRole
		}
		if seen[role] {
			continue
		}
		seen[role] = true
		normalized = append(normalized, role)
	}
	return normalized, nil
}
