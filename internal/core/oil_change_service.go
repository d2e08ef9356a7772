package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// OilChangeService manages a shop's service records. Only the creation of new
// records is gated by the shop's entitlement.
type OilChangeService struct {
	repo         db.OilChangeRepository
	entitlements *EntitlementService
	audit        *AuditService
	logger       *zap.Logger
	now          Clock
}

// NewOilChangeService creates a new OilChangeService.
func NewOilChangeService(
	repo db.OilChangeRepository,
	entitlements *EntitlementService,
	audit *AuditService,
	logger *zap.Logger,
	opts ...Option,
) *OilChangeService {
	o := applyOptions(opts)
	return &OilChangeService{
		repo:         repo,
		entitlements: entitlements,
		audit:        audit,
		logger:       logger,
		now:          o.now,
	}
}

// normalizeOilChange trims free-text input so whitespace-only values count as blank.
func normalizeOilChange(req models.OilChangeRequest) models.OilChangeRequest {
	for _, f := range []*string{
		&req.VehicleID, &req.OilBrand, &req.OilBrandCustom, &req.Viscosity, &req.ViscosityCustom,
		&req.OilType, &req.OilTypeCustom, &req.Notes, &req.TicketNumber, &req.ContactName, &req.ContactPhone,
	} {
		*f = strings.TrimSpace(*f)
	}
	req.VehicleID = strings.ToUpper(req.VehicleID)
	return req
}

func validateOilChange(req models.OilChangeRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if req.NextOdometerKm < req.OdometerKm {
		return invalidField("nextOdometerKm", "gtefield=odometerKm")
	}
	return nil
}

// applyRequest copies the form fields onto rec and derives the next service date.
func applyRequest(rec *models.OilChange, req models.OilChangeRequest) {
	rec.VehicleID = req.VehicleID
	rec.ServiceDate = req.ServiceDate.UTC()
	rec.OdometerKm = req.OdometerKm
	rec.NextOdometerKm = req.NextOdometerKm
	rec.OilBrand = req.OilBrand
	rec.OilBrandCustom = req.OilBrandCustom
	rec.Viscosity = req.Viscosity
	rec.ViscosityCustom = req.ViscosityCustom
	rec.OilType = req.OilType
	rec.OilTypeCustom = req.OilTypeCustom
	rec.Filters = req.Filters
	rec.Extras = req.Extras
	rec.Notes = req.Notes
	rec.TicketNumber = req.TicketNumber
	rec.ContactName = req.ContactName
	rec.ContactPhone = req.ContactPhone
	rec.RecurrenceMonths = req.RecurrenceMonths

	switch {
	case req.NextServiceDate != nil:
		next := req.NextServiceDate.UTC()
		rec.NextServiceDate = &next
	case req.RecurrenceMonths > 0:
		next := rec.ServiceDate.AddDate(0, req.RecurrenceMonths, 0)
		rec.NextServiceDate = &next
	default:
		rec.NextServiceDate = nil
	}
}

// List returns all records of the shop, newest first.
func (s *OilChangeService) List(ctx context.Context, shopID string) ([]*models.OilChange, error) {
	records, err := s.repo.List(ctx, shopID)
	if err != nil {
		return nil, storageErr("list oil changes", err)
	}
	return records, nil
}

// Search filters the shop's records by vehicle, contact name or ticket, case-insensitively.
func (s *OilChangeService) Search(ctx context.Context, shopID, query string) ([]*models.OilChange, error) {
	records, err := s.List(ctx, shopID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records, nil
	}
	var matches []*models.OilChange
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.VehicleID), q) ||
			strings.Contains(strings.ToLower(rec.ContactName), q) ||
			strings.Contains(strings.ToLower(rec.TicketNumber), q) {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// Get retrieves one record.
func (s *OilChangeService) Get(ctx context.Context, shopID, oilChangeID string) (*models.OilChange, error) {
	rec, err := s.repo.GetByID(ctx, shopID, oilChangeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrOilChangeNotFound
		}
		return nil, storageErr("get oil change", err)
	}
	return rec, nil
}

// Create validates the form, charges one change to the shop's entitlement and
// stores the record. Validation happens before any entitlement or storage
// call; if storing fails after the charge, the change is given back.
func (s *OilChangeService) Create(ctx context.Context, shopID string, actor Actor, req models.OilChangeRequest) (*models.OilChange, error) {
	req = normalizeOilChange(req)
	if err := validateOilChange(req); err != nil {
		return nil, err
	}

	if _, err := s.entitlements.Evaluate(ctx, shopID); err != nil {
		return nil, err
	}
	charged, err := s.entitlements.Consume(ctx, shopID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rec := &models.OilChange{ShopID: shopID, CreatedAt: now, UpdatedAt: now, CreatedBy: actor.DisplayName}
	applyRequest(rec, req)

	if _, err := s.repo.Create(ctx, shopID, rec); err != nil {
		if restoreErr := s.entitlements.Restore(ctx, charged.ID); restoreErr != nil {
			s.logger.Error("Failed to give back entitlement after oil change write failure",
				zap.String("shop_id", shopID),
				zap.String("entitlement_id", charged.ID),
				zap.Error(restoreErr),
			)
		}
		return nil, storageErr("create oil change", err)
	}

	s.audit.Record(ctx, actor, shopID, ActionOilChangeCreate, "OIL_CHANGE", rec.ID, map[string]interface{}{
		"ticketNumber":  rec.TicketNumber,
		"vehicleId":     rec.VehicleID,
		"entitlementId": charged.ID,
	})
	return rec, nil
}

// Update edits a record in place. Edits never touch the entitlement.
func (s *OilChangeService) Update(ctx context.Context, shopID, oilChangeID string, actor Actor, req models.OilChangeRequest) (*models.OilChange, error) {
	req = normalizeOilChange(req)
	if err := validateOilChange(req); err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, shopID, oilChangeID)
	if err != nil {
		return nil, err
	}
	applyRequest(rec, req)
	rec.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, shopID, rec); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrOilChangeNotFound
		}
		return nil, storageErr("update oil change", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionOilChangeUpdate, "OIL_CHANGE", rec.ID, nil)
	return rec, nil
}

// Delete removes a record unconditionally.
func (s *OilChangeService) Delete(ctx context.Context, shopID, oilChangeID string, actor Actor) error {
	if err := s.repo.Delete(ctx, shopID, oilChangeID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrOilChangeNotFound
		}
		return storageErr("delete oil change", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionOilChangeDelete, "OIL_CHANGE", oilChangeID, nil)
	return nil
}

// SuggestTicket proposes the next ticket number for the shop.
func (s *OilChangeService) SuggestTicket(ctx context.Context, shopID string) (string, error) {
	records, err := s.List(ctx, shopID)
	if err != nil {
		return "", err
	}
	tickets := make([]string, 0, len(records))
	for _, rec := range records {
		tickets = append(tickets, rec.TicketNumber)
	}
	return SuggestTicket(tickets), nil
}
