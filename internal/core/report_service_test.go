package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lubricentro-backend/internal/models"
)

func reportRecords() []*models.OilChange {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	return []*models.OilChange{
		{ServiceDate: day(2024, 12, 3), OilBrand: "YPF", Filters: map[string]string{"aceite": ""}},
		{ServiceDate: day(2025, 2, 10), OilBrand: "Shell"},
		{ServiceDate: day(2025, 2, 20), OilBrand: "YPF", Filters: map[string]string{"aire": "", "combustible": ""}},
		{ServiceDate: day(2025, 3, 1), OilBrand: "YPF", Filters: map[string]string{"aceite": "cambiado"}},
		{ServiceDate: day(2025, 3, 5), OilBrand: "Total"},
		{ServiceDate: day(2025, 3, 14), OilBrand: "Castrol", OilBrandCustom: "Castrol Edge"},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(reportRecords(), fixedNow)

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 3, s.ThisMonth)
	assert.Equal(t, 2, s.LastMonth)
	assert.Equal(t, 50.0, s.PercentChange)

	var months []string
	var counts []int
	for _, m := range s.Monthly {
		months = append(months, m.Month)
		counts = append(counts, m.Count)
	}
	assert.Equal(t, []string{"2024-10", "2024-11", "2024-12", "2025-01", "2025-02", "2025-03"}, months)
	assert.Equal(t, []int{0, 0, 1, 0, 2, 3}, counts)

	assert.Equal(t, []RankedItem{
		{Label: "YPF", Count: 3},
		{Label: "Castrol Edge", Count: 1},
		{Label: "Shell", Count: 1},
		{Label: "Total", Count: 1},
	}, s.TopOils)
	assert.Equal(t, []RankedItem{
		{Label: "aceite", Count: 2},
		{Label: "aire", Count: 1},
		{Label: "combustible", Count: 1},
	}, s.TopFilters)
}

func TestSummarizeWithoutPreviousMonth(t *testing.T) {
	s := Summarize([]*models.OilChange{{ServiceDate: fixedNow, OilBrand: "YPF"}}, fixedNow)
	assert.Equal(t, 1, s.ThisMonth)
	assert.Zero(t, s.LastMonth)
	assert.Zero(t, s.PercentChange)

	empty := Summarize(nil, fixedNow)
	assert.Zero(t, empty.Total)
	assert.Len(t, empty.Monthly, 6)
	assert.Empty(t, empty.TopOils)
}

func TestSummarizeReminders(t *testing.T) {
	at := func(days int, hour int) *time.Time {
		d := time.Date(2025, 3, 15, hour, 0, 0, 0, time.UTC).AddDate(0, 0, days)
		return &d
	}
	records := []*models.OilChange{
		{TicketNumber: "L-00001", VehicleID: "AAA111", ServiceDate: fixedNow, NextServiceDate: at(30, 18)},
		{TicketNumber: "L-00002", VehicleID: "BBB222", ServiceDate: fixedNow, NextServiceDate: at(0, 0)},
		{TicketNumber: "L-00003", VehicleID: "aaa111 ", ServiceDate: fixedNow.AddDate(0, -1, 0), NextServiceDate: at(31, 0)},
		{TicketNumber: "L-00004", VehicleID: "CCC333", ServiceDate: fixedNow.AddDate(0, -2, 0), NextServiceDate: at(-1, 23)},
		{TicketNumber: "L-00005", VehicleID: "DDD444", ServiceDate: fixedNow.AddDate(0, -3, 0), NextServiceDate: at(-40, 9)},
		{TicketNumber: "L-00006", VehicleID: "BBB222", ServiceDate: fixedNow.AddDate(0, -4, 0)},
		{TicketNumber: "L-00007", ServiceDate: fixedNow},
		{TicketNumber: "L-00008", ServiceDate: fixedNow},
	}
	s := Summarize(records, fixedNow)

	tickets := func(list []*models.OilChange) []string {
		out := []string{}
		for _, r := range list {
			out = append(out, r.TicketNumber)
		}
		return out
	}
	assert.Equal(t, []string{"L-00002", "L-00001"}, tickets(s.Upcoming), "due today and due in 30 days, soonest first")
	assert.Equal(t, []string{"L-00005", "L-00004"}, tickets(s.Overdue), "oldest first, due today is not overdue")
	assert.Equal(t, []string{"L-00001", "L-00002", "L-00007", "L-00008"}, tickets(s.ThisMonthRecords))
	assert.Equal(t, 2, s.RecurringCustomers, "blank vehicle IDs never count")
}

func TestSummarizeRemindersEmpty(t *testing.T) {
	s := Summarize([]*models.OilChange{{ServiceDate: fixedNow}}, fixedNow)
	assert.NotNil(t, s.Upcoming)
	assert.Empty(t, s.Upcoming)
	assert.NotNil(t, s.Overdue)
	assert.Empty(t, s.Overdue)
	assert.Zero(t, s.RecurringCustomers)
	assert.Len(t, s.ThisMonthRecords, 1)
}

func TestSummarizeRoundsPercent(t *testing.T) {
	var records []*models.OilChange
	for i := 0; i < 3; i++ {
		records = append(records, &models.OilChange{ServiceDate: fixedNow.AddDate(0, -1, 0)})
	}
	records = append(records, &models.OilChange{ServiceDate: fixedNow})
	s := Summarize(records, fixedNow)
	assert.Equal(t, -66.7, s.PercentChange)
}

func TestExportCSV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true})
	req := validOilChange("L-00001")
	req.RecurrenceMonths = 6
	_, err := f.oilChanges.Create(ctx, "s1", owner, req)
	require.NoError(t, err)

	reports := NewReportService(f.oilChanges, WithClock(fixedClock()))
	var buf bytes.Buffer
	require.NoError(t, reports.ExportCSV(ctx, "s1", &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"ticket", "fecha", "dominio", "km", "proximo_km", "proxima_fecha", "aceite", "sae", "tipo",
		"filtros", "extras", "cliente", "telefono", "observaciones", "atendido_por",
	}, rows[0])
	assert.Equal(t, "L-00001", rows[1][0])
	assert.Equal(t, "2025-03-15", rows[1][1])
	assert.Equal(t, "AB123CD", rows[1][2])
	assert.Equal(t, "2025-09-15", rows[1][5])
	assert.Equal(t, "aceite; aire (sopleteado)", rows[1][9])
	assert.Equal(t, "Marta", rows[1][14])
}

func TestReportSummaryService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "premium", Active: true})
	for _, ticket := range []string{"L-00001", "L-00002"} {
		_, err := f.oilChanges.Create(ctx, "s1", owner, validOilChange(ticket))
		require.NoError(t, err)
	}

	s, err := NewReportService(f.oilChanges, WithClock(fixedClock())).Summary(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.ThisMonth)
	assert.Equal(t, []RankedItem{{Label: "YPF Elaion", Count: 2}}, s.TopOils)
}
