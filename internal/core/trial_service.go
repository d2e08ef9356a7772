package core

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// TrialConfig sets the one-time starter grant.
type TrialConfig struct {
	Days    int
	Changes int
}

// TrialService issues the starter entitlement exactly once per shop.
type TrialService struct {
	repo   db.EntitlementRepository
	audit  *AuditService
	cfg    TrialConfig
	logger *zap.Logger
	now    Clock
}

// NewTrialService creates a new TrialService.
func NewTrialService(repo db.EntitlementRepository, audit *AuditService, cfg TrialConfig, logger *zap.Logger, opts ...Option) *TrialService {
	o := applyOptions(opts)
	return &TrialService{repo: repo, audit: audit, cfg: cfg, logger: logger, now: o.now}
}

// Activate creates the trial record and marks the shop's trial as used.
// A second call, or a call for a shop that already holds any entitlement,
// fails with ErrTrialAlreadyUsed and writes nothing.
func (s *TrialService) Activate(ctx context.Context, shopID string, actor Actor) (*models.Entitlement, error) {
	now := s.now()
	trial := &models.Entitlement{
		ShopID:              shopID,
		PlanID:              models.TrialPlanID,
		StartDate:           now,
		EndDate:             now.AddDate(0, 0, s.cfg.Days),
		Active:              true,
		TotalChangesAllowed: s.cfg.Changes,
		AvailableChanges:    s.cfg.Changes,
		Trial:               true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if _, err := s.repo.CreateTrial(ctx, trial); err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyExists):
			return nil, ErrTrialAlreadyUsed
		case errors.Is(err, db.ErrNotFound):
			return nil, ErrShopNotFound
		}
		return nil, storageErr("activate trial", err)
	}

	s.logger.Info("Trial activated", zap.String("shop_id", shopID), zap.Time("end_date", trial.EndDate))
	s.audit.Record(ctx, actor, shopID, ActionTrialActivate, "ENTITLEMENT", trial.ID, map[string]interface{}{
		"days":    s.cfg.Days,
		"changes": s.cfg.Changes,
	})
	return trial, nil
}
