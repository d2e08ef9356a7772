package core

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"lubricentro-backend/internal/models"
)

const (
	reportMonths = 6
	reportTopN   = 5
	// reminderWindowDays is how far ahead a next service date counts as upcoming.
	reminderWindowDays = 30
)

// MonthlyCount is the number of services in one calendar month ("2006-01").
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RankedItem is a label with its number of occurrences.
type RankedItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ReportSummary aggregates a shop's service history.
type ReportSummary struct {
	Total         int            `json:"total"`
	ThisMonth     int            `json:"thisMonth"`
	LastMonth     int            `json:"lastMonth"`
	PercentChange float64        `json:"percentChange"`
	Monthly       []MonthlyCount `json:"monthly"`
	TopOils       []RankedItem   `json:"topOils"`
	TopFilters    []RankedItem   `json:"topFilters"`

	// ThisMonthRecords lists the current month's services, newest first.
	ThisMonthRecords []*models.OilChange `json:"thisMonthRecords"`
	// Upcoming lists services due between today and reminderWindowDays ahead, soonest first.
	Upcoming []*models.OilChange `json:"upcoming"`
	// Overdue lists services whose next date is before today, oldest first.
	Overdue []*models.OilChange `json:"overdue"`
	// RecurringCustomers counts vehicles serviced more than once.
	RecurringCustomers int `json:"recurringCustomers"`
}

// ReportService builds statistics and exports over a shop's oil changes.
type ReportService struct {
	oilChanges *OilChangeService
	now        Clock
}

// NewReportService creates a new ReportService.
func NewReportService(oilChanges *OilChangeService, opts ...Option) *ReportService {
	o := applyOptions(opts)
	return &ReportService{oilChanges: oilChanges, now: o.now}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// serviceMonth is the month a record counts towards; records without a service date use their creation date.
func serviceMonth(rec *models.OilChange) time.Time {
	if rec.ServiceDate.IsZero() {
		return monthStart(rec.CreatedAt.UTC())
	}
	return monthStart(rec.ServiceDate.UTC())
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sortByNextService(records []*models.OilChange) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].NextServiceDate.Before(*records[j].NextServiceDate)
	})
}

func rank(counts map[string]int, n int) []RankedItem {
	items := make([]RankedItem, 0, len(counts))
	for label, c := range counts {
		items = append(items, RankedItem{Label: label, Count: c})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Label < items[j].Label
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// Summarize computes the summary for records as of now.
func Summarize(records []*models.OilChange, now time.Time) *ReportSummary {
	current := monthStart(now.UTC())
	previous := current.AddDate(0, -1, 0)

	today := dayStart(now)
	horizon := today.AddDate(0, 0, reminderWindowDays)

	byMonth := make(map[time.Time]int)
	oils := make(map[string]int)
	filters := make(map[string]int)
	vehicles := make(map[string]int)
	thisMonth := []*models.OilChange{}
	upcoming := []*models.OilChange{}
	overdue := []*models.OilChange{}
	for _, rec := range records {
		month := serviceMonth(rec)
		byMonth[month]++
		if month.Equal(current) {
			thisMonth = append(thisMonth, rec)
		}
		if rec.NextServiceDate != nil {
			due := dayStart(*rec.NextServiceDate)
			switch {
			case due.Before(today):
				overdue = append(overdue, rec)
			case !due.After(horizon):
				upcoming = append(upcoming, rec)
			}
		}
		if v := strings.ToUpper(strings.TrimSpace(rec.VehicleID)); v != "" {
			vehicles[v]++
		}
		if label := strings.TrimSpace(rec.OilLabel()); label != "" {
			oils[label]++
		}
		for name := range rec.Filters {
			if name = strings.TrimSpace(name); name != "" {
				filters[name]++
			}
		}
	}

	sortByNextService(upcoming)
	sortByNextService(overdue)
	recurring := 0
	for _, n := range vehicles {
		if n > 1 {
			recurring++
		}
	}

	summary := &ReportSummary{
		Total:              len(records),
		ThisMonth:          byMonth[current],
		LastMonth:          byMonth[previous],
		TopOils:            rank(oils, reportTopN),
		TopFilters:         rank(filters, reportTopN),
		ThisMonthRecords:   thisMonth,
		Upcoming:           upcoming,
		Overdue:            overdue,
		RecurringCustomers: recurring,
	}
	if summary.LastMonth > 0 {
		pct := float64(summary.ThisMonth-summary.LastMonth) / float64(summary.LastMonth) * 100
		summary.PercentChange = math.Round(pct*10) / 10
	}
	for i := reportMonths - 1; i >= 0; i-- {
		m := current.AddDate(0, -i, 0)
		summary.Monthly = append(summary.Monthly, MonthlyCount{Month: m.Format("2006-01"), Count: byMonth[m]})
	}
	return summary
}

// Summary returns the report for the shop.
func (s *ReportService) Summary(ctx context.Context, shopID string) (*ReportSummary, error) {
	records, err := s.oilChanges.List(ctx, shopID)
	if err != nil {
		return nil, err
	}
	return Summarize(records, s.now()), nil
}

func joinLabels(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for label, comment := range m {
		if comment != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", label, comment))
		} else {
			parts = append(parts, label)
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

func toCSVRow(rec *models.OilChange) models.OilChangeCSVRow {
	row := models.OilChangeCSVRow{
		TicketNumber:   rec.TicketNumber,
		ServiceDate:    rec.ServiceDate.Format("2006-01-02"),
		VehicleID:      rec.VehicleID,
		OdometerKm:     rec.OdometerKm,
		NextOdometerKm: rec.NextOdometerKm,
		Oil:            rec.OilLabel(),
		Viscosity:      rec.ViscosityLabel(),
		OilType:        rec.OilTypeLabel(),
		Filters:        joinLabels(rec.Filters),
		Extras:         joinLabels(rec.Extras),
		ContactName:    rec.ContactName,
		ContactPhone:   rec.ContactPhone,
		Notes:          rec.Notes,
		CreatedBy:      rec.CreatedBy,
	}
	if rec.NextServiceDate != nil {
		row.NextServiceDate = rec.NextServiceDate.Format("2006-01-02")
	}
	return row
}

// ExportCSV writes every record of the shop to w, newest first.
func (s *ReportService) ExportCSV(ctx context.Context, shopID string, w io.Writer) error {
	records, err := s.oilChanges.List(ctx, shopID)
	if err != nil {
		return err
	}
	rows := make([]models.OilChangeCSVRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, toCSVRow(rec))
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to encode oil changes as CSV: %w", err)
	}
	return nil
}
