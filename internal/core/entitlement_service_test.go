package core

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lubricentro-backend/internal/models"
)

func TestEvaluatePrefersPrimaryRecord(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "paquete50", Active: true, TotalChangesAllowed: 50, AddOn: true})
	primary := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50, ChangesUsed: 45})

	eval, err := f.entitlements.Evaluate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, primary.ID, eval.Authoritative.ID)
	assert.Equal(t, 55, eval.RemainingChanges)
	assert.Equal(t, 29, eval.RemainingDays)
}

func TestEvaluateFallsBackToAddOnThenExhausts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	addOn := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "paquete", Active: true, TotalChangesAllowed: 3, AddOn: true})
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50, ChangesUsed: 50})

	eval, err := f.entitlements.Evaluate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, addOn.ID, eval.Authoritative.ID)
	assert.Equal(t, 3, eval.RemainingChanges)

	for i := 0; i < 3; i++ {
		consumed, err := f.entitlements.Consume(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, addOn.ID, consumed.ID)
	}

	_, err = f.entitlements.Evaluate(ctx, "s1")
	assert.ErrorIs(t, err, ErrEntitlementExhausted)
	_, err = f.entitlements.Consume(ctx, "s1")
	assert.ErrorIs(t, err, ErrEntitlementExhausted)
}

func TestEvaluateFailureReasons(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Entitlement
		want    error
	}{
		{name: "no records", want: ErrNoEntitlement},
		{
			name:    "expired",
			records: []models.Entitlement{{Active: true, TotalChangesAllowed: 10, EndDate: fixedNow.AddDate(0, 0, -1), StartDate: fixedNow.AddDate(0, -1, 0)}},
			want:    ErrEntitlementExpired,
		},
		{
			name:    "inactive",
			records: []models.Entitlement{{Active: false, TotalChangesAllowed: 10}},
			want:    ErrEntitlementInactive,
		},
		{
			name:    "exhausted",
			records: []models.Entitlement{{Active: true, TotalChangesAllowed: 10, ChangesUsed: 10}},
			want:    ErrEntitlementExhausted,
		},
		{
			name: "exhausted wins over expired",
			records: []models.Entitlement{
				{Active: true, TotalChangesAllowed: 10, EndDate: fixedNow.AddDate(0, 0, -1), StartDate: fixedNow.AddDate(0, -1, 0)},
				{Active: true, TotalChangesAllowed: 5, ChangesUsed: 5},
			},
			want: ErrEntitlementExhausted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, e := range tt.records {
				e.ShopID = "s1"
				f.seedEntitlement(t, e)
			}
			_, err := f.entitlements.Evaluate(context.Background(), "s1")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNoEntitlementIsNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrNoEntitlement, ErrNotFound))
}

func TestZeroTotalMeansUnlimited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	premium := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true, TotalChangesAllowed: 0})

	eval, err := f.entitlements.Evaluate(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, -1, eval.RemainingChanges)

	for i := 0; i < 25; i++ {
		_, err := f.entitlements.Consume(ctx, "s1")
		require.NoError(t, err)
	}
	stored := f.entitlement(t, "s1", premium.ID)
	assert.Equal(t, 25, stored.ChangesUsed)
	assert.Equal(t, 0, stored.AvailableChanges)
	assert.True(t, stored.Usable(fixedNow))
}

func TestConsumeOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	unlimited := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true})
	primary := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 1})
	lateAddOn := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "paquete", Active: true, TotalChangesAllowed: 1, AddOn: true, EndDate: fixedNow.AddDate(0, 0, 20)})
	earlyAddOn := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "paquete", Active: true, TotalChangesAllowed: 1, AddOn: true, EndDate: fixedNow.AddDate(0, 0, 10)})

	var got []string
	for i := 0; i < 4; i++ {
		consumed, err := f.entitlements.Consume(ctx, "s1")
		require.NoError(t, err)
		got = append(got, consumed.ID)
	}
	assert.Equal(t, []string{earlyAddOn.ID, lateAddOn.ID, primary.ID, unlimited.ID}, got)
}

func TestConsumeKeepsCounterInvariant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 4})

	for i := 0; i < 6; i++ {
		_, _ = f.entitlements.Consume(ctx, "s1")
		stored := f.entitlement(t, "s1", e.ID)
		assert.Equal(t, max(stored.TotalChangesAllowed-stored.ChangesUsed, 0), stored.AvailableChanges)
		assert.GreaterOrEqual(t, stored.AvailableChanges, 0)
	}
	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 4, stored.ChangesUsed)
	assert.Equal(t, 0, stored.AvailableChanges)
}

func TestConsumeConcurrentNeverOverdraws(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})

	const workers = 40
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.entitlements.Consume(ctx, "s1"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrEntitlementExhausted)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 5, stored.ChangesUsed)
	assert.Equal(t, 0, stored.AvailableChanges)
}

func TestRestoreGivesBackOneChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 2})

	_, err := f.entitlements.Consume(ctx, "s1")
	require.NoError(t, err)
	require.NoError(t, f.entitlements.Restore(ctx, e.ID))
	require.NoError(t, f.entitlements.Restore(ctx, e.ID))

	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 0, stored.ChangesUsed)
	assert.Equal(t, 2, stored.AvailableChanges)
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		record *models.Entitlement
		want   string
	}{
		{name: "none", want: StatusNoSubscription},
		{name: "trial", record: &models.Entitlement{PlanID: models.TrialPlanID, Active: true, Trial: true, TotalChangesAllowed: 10}, want: StatusActiveTrial},
		{name: "expiring", record: &models.Entitlement{Active: true, TotalChangesAllowed: 50, EndDate: fixedNow.AddDate(0, 0, 3)}, want: StatusExpiringSoon},
		{name: "low", record: &models.Entitlement{Active: true, TotalChangesAllowed: 50, ChangesUsed: 45}, want: StatusLowChanges},
		{name: "active", record: &models.Entitlement{Active: true, TotalChangesAllowed: 50}, want: StatusActive},
		{name: "unlimited is never low", record: &models.Entitlement{Active: true}, want: StatusActive},
		{name: "used up", record: &models.Entitlement{Active: true, TotalChangesAllowed: 50, ChangesUsed: 50}, want: StatusNoChangesLeft},
		{name: "expired", record: &models.Entitlement{Active: true, TotalChangesAllowed: 50, StartDate: fixedNow.AddDate(0, -2, 0), EndDate: fixedNow.AddDate(0, -1, 0)}, want: StatusExpired},
		{name: "inactive", record: &models.Entitlement{Active: false, TotalChangesAllowed: 50}, want: StatusInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.record != nil {
				tt.record.ShopID = "s1"
				f.seedEntitlement(t, *tt.record)
			}
			st, err := f.entitlements.Status(context.Background(), "s1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.Code)
			assert.NotEmpty(t, st.Message)
		})
	}
}
