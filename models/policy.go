package models

import (
	"time"
)

// Default withdrawal window when no policy has ever been saved.
const (
	DefaultWindowStartDay = 26
	DefaultWindowEndDay   = 30
)

// WithdrawalWindow is the inclusive day-of-month range during which
// earners may submit withdrawal requests.
type WithdrawalWindow struct {
	StartDay int `json:"startDay" bson:"startDay" validate:"min=1,max=31"`
	EndDay   int `json:"endDay" bson:"endDay" validate:"min=1,max=31"`
}

// CommissionPolicy is the singleton configuration read by the commission
// calculator and the withdrawal gate. It is replaced as a whole on every
// admin update; existing commission entries keep the rate they were
// created with.
type CommissionPolicy struct {
	Rate             float64          `json:"rate" bson:"rate"`
	ExcludedRoles    []string         `json:"excludedRoles" bson:"excludedRoles"`
	WithdrawalWindow WithdrawalWindow `json:"withdrawalWindow" bson:"withdrawalWindow"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// DefaultCommissionPolicy returns the built-in policy used until an admin
// saves one: no commission, no exclusions, withdrawals on days 26-30.
func DefaultCommissionPolicy() CommissionPolicy {
	return CommissionPolicy{
		Rate:          0,
		ExcludedRoles: []string{},
		WithdrawalWindow: WithdrawalWindow{
			StartDay: DefaultWindowStartDay,
			EndDay:   DefaultWindowEndDay,
		},
	}
}

// IsRoleExcluded reports whether sales by the given role earn no commission.
func (p CommissionPolicy) IsRoleExcluded(role string) bool {
	for _, excluded := range p.ExcludedRoles {
		if excluded == role {
			return true
		}
	}
	return false
}

// PolicyUpdate is the partial update body accepted from the admin
// dashboard. Nil fields keep their current value.
type PolicyUpdate struct {
	Rate             *float64          `json:"rate,omitempty"`
	ExcludedRoles    *[]string         `json:"excludedRoles,omitempty"`
	WithdrawalWindow *WithdrawalWindow `json:"withdrawalWindow,omitempty"`
}
