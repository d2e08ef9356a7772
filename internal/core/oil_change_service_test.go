package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lubricentro-backend/internal/models"
)

func TestCreateRejectsInvalidFormBeforeAnyCall(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*models.OilChangeRequest)
		field string
	}{
		{name: "blank vehicle", edit: func(r *models.OilChangeRequest) { r.VehicleID = "   " }, field: "vehicleId"},
		{name: "no ticket", edit: func(r *models.OilChangeRequest) { r.TicketNumber = "" }, field: "ticketNumber"},
		{name: "zero odometer", edit: func(r *models.OilChangeRequest) { r.OdometerKm = 0 }, field: "odometerKm"},
		{name: "next below current", edit: func(r *models.OilChangeRequest) { r.NextOdometerKm = 1000 }, field: "nextOdometerKm"},
		{name: "no oil", edit: func(r *models.OilChangeRequest) { r.OilBrand = "" }, field: "oilBrand"},
		{name: "no service date", edit: func(r *models.OilChangeRequest) { r.ServiceDate = time.Time{} }, field: "serviceDate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50})
			req := validOilChange("L-00001")
			tt.edit(&req)

			_, err := f.oilChanges.Create(context.Background(), "s1", owner, req)
			require.ErrorIs(t, err, ErrValidationFailed)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Contains(t, ve.Fields, tt.field)

			assert.Zero(t, f.entRepo.lists.Load())
			assert.Zero(t, f.entRepo.consumes.Load())
			assert.Zero(t, f.oilRepo.creates.Load())
		})
	}
}

func TestCreateCustomOilOverridesCatalogue(t *testing.T) {
	f := newFixture(t)
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50})
	req := validOilChange("L-00001")
	req.OilBrand = ""
	req.OilBrandCustom = "Aceite de la casa"

	rec, err := f.oilChanges.Create(context.Background(), "s1", owner, req)
	require.NoError(t, err)
	assert.Equal(t, "Aceite de la casa", rec.OilLabel())
}

func TestCreateThenListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50})

	first, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange("L-00001"))
	require.NoError(t, err)
	req := validOilChange("L-00002")
	req.VehicleID = " ac456fg "
	second, err := f.oilChanges.Create(ctx, "s1", owner, req)
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "AC456FG", second.VehicleID)
	assert.Equal(t, "Marta", second.CreatedBy)

	records, err := f.oilChanges.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, first.ID, records[1].ID)
	assert.Equal(t, "s1", records[0].ShopID)

	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 2, stored.ChangesUsed)
	assert.Equal(t, 48, stored.AvailableChanges)
}

func TestCreateBlockedWhenExhausted(t *testing.T) {
	f := newFixture(t)
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 50, ChangesUsed: 50})

	_, err := f.oilChanges.Create(context.Background(), "s1", owner, validOilChange("L-00001"))
	assert.ErrorIs(t, err, ErrEntitlementExhausted)
	assert.Zero(t, f.oilRepo.creates.Load())
	assert.Zero(t, f.entRepo.consumes.Load())
}

func TestCreateWithoutEntitlement(t *testing.T) {
	f := newFixture(t)
	_, err := f.oilChanges.Create(context.Background(), "s1", owner, validOilChange("L-00001"))
	assert.ErrorIs(t, err, ErrNoEntitlement)
	assert.Zero(t, f.oilRepo.creates.Load())
}

func TestCreateGivesBackChangeWhenStoreFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 3})
	f.oilRepo.createFn = func(context.Context, string, *models.OilChange) (string, error) {
		return "", errors.New("deadline exceeded")
	}

	_, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange("L-00001"))
	assert.ErrorIs(t, err, ErrStorageFailure)

	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 0, stored.ChangesUsed)
	assert.Equal(t, 3, stored.AvailableChanges)

	records, err := f.oilChanges.List(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateDoesNotTouchEntitlement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 1})

	rec, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange("L-00001"))
	require.NoError(t, err)
	consumesBefore := f.entRepo.consumes.Load()

	req := validOilChange("L-00001")
	req.Notes = "cliente pidió revisar frenos"
	updated, err := f.oilChanges.Update(ctx, "s1", rec.ID, owner, req)
	require.NoError(t, err)
	assert.Equal(t, "cliente pidió revisar frenos", updated.Notes)
	assert.Equal(t, consumesBefore, f.entRepo.consumes.Load())

	stored := f.entitlement(t, "s1", e.ID)
	assert.Equal(t, 1, stored.ChangesUsed)

	got, err := f.oilChanges.Get(ctx, "s1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "cliente pidió revisar frenos", got.Notes)
}

func TestUpdateMissingRecord(t *testing.T) {
	f := newFixture(t)
	_, err := f.oilChanges.Update(context.Background(), "s1", "nope", owner, validOilChange("L-00001"))
	assert.ErrorIs(t, err, ErrOilChangeNotFound)
}

func TestDeleteOilChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})
	rec, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange("L-00001"))
	require.NoError(t, err)

	require.NoError(t, f.oilChanges.Delete(ctx, "s1", rec.ID, owner))
	_, err = f.oilChanges.Get(ctx, "s1", rec.ID)
	assert.ErrorIs(t, err, ErrOilChangeNotFound)

	err = f.oilChanges.Delete(ctx, "s1", rec.ID, owner)
	assert.ErrorIs(t, err, ErrOilChangeNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordsAreScopedToShop(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})
	rec, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange("L-00001"))
	require.NoError(t, err)

	_, err = f.oilChanges.Get(ctx, "s2", rec.ID)
	assert.ErrorIs(t, err, ErrOilChangeNotFound)
	records, err := f.oilChanges.List(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestNextServiceDate(t *testing.T) {
	explicit := fixedNow.AddDate(0, 4, 0)
	tests := []struct {
		name       string
		recurrence int
		explicit   *time.Time
		want       *time.Time
	}{
		{name: "none"},
		{name: "derived from recurrence", recurrence: 6, want: ptrTime(fixedNow.AddDate(0, 6, 0))},
		{name: "explicit wins", recurrence: 6, explicit: &explicit, want: &explicit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})
			req := validOilChange("L-00001")
			req.RecurrenceMonths = tt.recurrence
			req.NextServiceDate = tt.explicit

			rec, err := f.oilChanges.Create(context.Background(), "s1", owner, req)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, rec.NextServiceDate)
				return
			}
			require.NotNil(t, rec.NextServiceDate)
			assert.True(t, tt.want.Equal(*rec.NextServiceDate))
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }

func TestSearchOilChanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true})

	a := validOilChange("L-00001")
	a.VehicleID = "AB123CD"
	a.ContactName = "Juan Pérez"
	b := validOilChange("L-00002")
	b.VehicleID = "OPQ987"
	b.ContactName = "Lucía Gómez"
	for _, req := range []models.OilChangeRequest{a, b} {
		_, err := f.oilChanges.Create(ctx, "s1", owner, req)
		require.NoError(t, err)
	}

	tests := []struct {
		query string
		want  []string
	}{
		{query: "ab123", want: []string{"L-00001"}},
		{query: "lucía", want: []string{"L-00002"}},
		{query: "l-0000", want: []string{"L-00002", "L-00001"}},
		{query: "  ", want: []string{"L-00002", "L-00001"}},
		{query: "zzz", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			records, err := f.oilChanges.Search(ctx, "s1", tt.query)
			require.NoError(t, err)
			var got []string
			for _, rec := range records {
				got = append(got, rec.TicketNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSuggestTicketFromRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true})

	next, err := f.oilChanges.SuggestTicket(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "L-00001", next)

	for _, ticket := range []string{"L-00001", "L-00007", "manual"} {
		_, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange(ticket))
		require.NoError(t, err)
	}
	next, err = f.oilChanges.SuggestTicket(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "L-00008", next)
}

func TestCreateWritesAudit(t *testing.T) {
	f := newFixture(t)
	e := f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})
	rec, err := f.oilChanges.Create(context.Background(), "s1", owner, validOilChange("L-00001"))
	require.NoError(t, err)

	entries := f.store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, ActionOilChangeCreate, entries[0].Action)
	assert.Equal(t, rec.ID, entries[0].TargetID)
	assert.Equal(t, e.ID, entries[0].Details["entitlementId"])
}
