package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aquadrop/commission_backend/models"
)

func TestRecordSaleCommissionMath(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(12)})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAffiliate)
	entry, err := env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-1001",
		SaleAmount: 1000,
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, 120.00, entry.CommissionAmount)
	assert.Equal(t, 12.0, entry.RateApplied)
	assert.Equal(t, models.CommissionStatusPending, entry.Status)
	assert.Equal(t, earnerID, entry.EarnerID)
}

func TestRecordSaleRoundsHalfUp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	cases := []struct {
		rate       float64
		saleAmount float64
		want       float64
	}{
		{15, 100.25, 15.04}, // 15.0375 rounds up
		{1, 12.5, 0.13},     // 0.125 rounds up at the half
		{2.5, 199.99, 5.00}, // 4.99975 rounds up
		{10, 100, 10.00},
	}

	for _, tc := range cases {
		_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(tc.rate)})
		require.NoError(t, err)

		earnerID := env.earnerStore.add(models.RoleAffiliate)
		entry, err := env.commissions.RecordSale(ctx, models.SaleEvent{
			EarnerID:   earnerID.Hex(),
			EarnerRole: models.RoleAffiliate,
			SaleID:     "order-rounding",
			SaleAmount: tc.saleAmount,
		})
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, tc.want, entry.CommissionAmount,
			"rate %v on %v", tc.rate, tc.saleAmount)
	}
}

func TestRecordSaleExcludedRoleIsNoOp(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{
		Rate:          float64Ptr(10),
		ExcludedRoles: rolesPtr(models.RoleAdmin),
	})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAdmin)
	entry, err := env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAdmin,
		SaleID:     "order-500",
		SaleAmount: 500,
	})
	require.NoError(t, err)
	assert.Nil(t, entry)
	assert.Equal(t, 0, env.entryStore.count())
}

func TestRecordSaleInvalidAmount(t *testing.T) {
	env := newTestEnv()
	earnerID := env.earnerStore.add(models.RoleAffiliate)

	for _, amount := range []float64{0, -10} {
		_, err := env.commissions.RecordSale(context.Background(), models.SaleEvent{
			EarnerID:   earnerID.Hex(),
			EarnerRole: models.RoleAffiliate,
			SaleID:     "order-bad",
			SaleAmount: amount,
		})
		assert.ErrorIs(t, err, ErrInvalidSaleAmount, "amount %v", amount)
	}
}

func TestRecordSaleUnknownEarner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   "64a000000000000000000000",
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-1",
		SaleAmount: 100,
	})
	assert.ErrorIs(t, err, ErrUnknownEarner)

	_, err = env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   "not-an-object-id",
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-2",
		SaleAmount: 100,
	})
	assert.ErrorIs(t, err, ErrUnknownEarner)
}

func TestRecordSaleIdempotent(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(10)})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAffiliate)
	sale := models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-dup",
		SaleAmount: 200,
	}

	first, err := env.commissions.RecordSale(ctx, sale)
	require.NoError(t, err)
	second, err := env.commissions.RecordSale(ctx, sale)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.entryStore.count())
}

func TestRecordSaleConcurrentDuplicateDelivery(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(10)})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAffiliate)
	sale := models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-retry",
		SaleAmount: 300,
	}

	const workers = 10
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.commissions.RecordSale(ctx, sale)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "delivery %d", i)
	}
	assert.Equal(t, 1, env.entryStore.count())
}

func TestRateSnapshotSurvivesPolicyChange(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(10)})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAffiliate)
	entry, err := env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-snap",
		SaleAmount: 100,
	})
	require.NoError(t, err)
	require.NotNil(t, entry)

	_, err = env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(20)})
	require.NoError(t, err)

	stored, err := env.entryStore.FindBySale(ctx, earnerID, "order-snap")
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.RateApplied)
	assert.Equal(t, 10.00, stored.CommissionAmount)

	// New sales pick up the new rate.
	fresh, err := env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-snap-2",
		SaleAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.0, fresh.RateApplied)
	assert.Equal(t, 20.00, fresh.CommissionAmount)
}

func TestVoidSale(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.policies.Update(ctx, models.PolicyUpdate{Rate: float64Ptr(10)})
	require.NoError(t, err)

	earnerID := env.earnerStore.add(models.RoleAffiliate)
	_, err = env.commissions.RecordSale(ctx, models.SaleEvent{
		EarnerID:   earnerID.Hex(),
		EarnerRole: models.RoleAffiliate,
		SaleID:     "order-cancel",
		SaleAmount: 100,
	})
	require.NoError(t, err)

	voided, err := env.commissions.VoidSale(ctx, earnerID, "order-cancel")
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusVoided, voided.Status)

	// Voiding twice, or voiding an unknown sale, is rejected.
	_, err = env.commissions.VoidSale(ctx, earnerID, "order-cancel")
	assert.ErrorIs(t, err, ErrEntryNotVoidable)
	_, err = env.commissions.VoidSale(ctx, earnerID, "order-never-existed")
	assert.ErrorIs(t, err, ErrSaleNotFound)
}
