package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadrop/commission_backend/models"
)

func float64Ptr(v float64) *float64 { return &v }

func rolesPtr(roles ...string) *[]string { return &roles }

func windowPtr(start, end int) *models.WithdrawalWindow {
	return &models.WithdrawalWindow{StartDay: start, EndDay: end}
}

func TestPolicyGetReturnsDefaultWhenUnset(t *testing.T) {
	env := newTestEnv()

	policy, err := env.policies.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, policy.Rate)
	assert.Empty(t, policy.ExcludedRoles)
	assert.Equal(t, 26, policy.WithdrawalWindow.StartDay)
	assert.Equal(t, 30, policy.WithdrawalWindow.EndDay)
}

func TestPolicyUpdateRateBounds(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for _, rate := range []float64{-1, -0.01, 100.01, 250} {
		_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(rate)})
		assert.ErrorIs(t, err, ErrInvalidRate, "rate %v should be rejected", rate)
	}

	for _, rate := range []float64{0, 0.5, 12, 100} {
		policy, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(rate)})
		require.NoError(t, err, "rate %v should be accepted", rate)
		assert.Equal(t, rate, policy.Rate)
	}
}

func TestPolicyUpdateWindowOrdering(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	invalid := []models.WithdrawalWindow{
		{StartDay: 30, EndDay: 26},
		{StartDay: 0, EndDay: 15},
		{StartDay: 1, EndDay: 32},
		{StartDay: 31, EndDay: 1},
	}
	for _, window := range invalid {
		_, err := env.policies.Update(ctx, models.PolicyUpdate{WithdrawalWindow: &window})
		assert.ErrorIs(t, err, ErrInvalidWindow, "window %+v should be rejected", window)
	}

	policy, err := env.policies.Update(ctx, models.PolicyUpdate{WithdrawalWindow: windowPtr(1, 31)})
	require.NoError(t, err)
	assert.Equal(t, 1, policy.WithdrawalWindow.StartDay)
	assert.Equal(t, 31, policy.WithdrawalWindow.EndDay)
}

func TestPolicyUpdateExcludedRoles(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Trimmed and deduplicated.
	policy, err := env.policies.Update(ctx, models.PolicyUpdate{
		ExcludedRoles: rolesPtr(" admin ", "admin", "customer"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "customer"}, policy.ExcludedRoles)

	// Empty after trimming is rejected.
	_, err = env.policies.Update(ctx, models.PolicyUpdate{ExcludedRoles: rolesPtr("admin", "  ")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	// Free-form strings outside the known role set are rejected.
	_, err = env.policies.Update(ctx, models.PolicyUpdate{ExcludedRoles: rolesPtr("superuser")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	// A failed update leaves the stored policy untouched.
	current, err := env.policies.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "customer"}, current.ExcludedRoles)
}

func TestPolicyUpdateIsPartial(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{
		Rate:             float64Ptr(12),
		WithdrawalWindow: windowPtr(20, 25),
	})
	require.NoError(t, err)

	policy, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(15)})
	require.NoError(t, err)

	assert.Equal(t, 15.0, policy.Rate)
	assert.Equal(t, 20, policy.WithdrawalWindow.StartDay)
	assert.Equal(t, 25, policy.WithdrawalWindow.EndDay)
	assert.False(t, policy.UpdatedAt.IsZero())
}
