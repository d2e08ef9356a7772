package core

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ExpirySweeper deactivates entitlement records whose window has closed.
// Records are kept for history; only the active flag changes.
type ExpirySweeper struct {
	repo   db.EntitlementRepository
	audit  *AuditService
	logger *zap.Logger
	now    Clock
	sched  *cron.Cron
}

// NewExpirySweeper creates a new ExpirySweeper.
func NewExpirySweeper(repo db.EntitlementRepository, audit *AuditService, logger *zap.Logger, opts ...Option) *ExpirySweeper {
	o := applyOptions(opts)
	return &ExpirySweeper{repo: repo, audit: audit, logger: logger, now: o.now}
}

// Sweep deactivates every expired active record and returns how many were changed.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.repo.ListExpiredActive(ctx, now)
	if err != nil {
		return 0, storageErr("list expired entitlements", err)
	}
	done := 0
	for _, e := range expired {
		if err := s.repo.Deactivate(ctx, e.ID, now); err != nil {
			s.logger.Error("Failed to deactivate expired entitlement", zap.String("entitlement_id", e.ID), zap.Error(err))
			continue
		}
		done++
		s.audit.Record(ctx, Actor{UserID: "system"}, e.ShopID, ActionEntitlementExpire, "ENTITLEMENT", e.ID,
			map[string]interface{}{"planId": e.PlanID, "endDate": e.EndDate})
	}
	return done, nil
}

// Start schedules Sweep with a cron spec such as "@hourly" or "0 */15 * * * *".
func (s *ExpirySweeper) Start(spec string) error {
	s.sched = cron.New(cron.WithParser(cronParser))
	_, err := s.sched.AddFunc(spec, func() {
		n, err := s.Sweep(context.Background())
		if err != nil {
			s.logger.Error("Entitlement expiry sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			s.logger.Info("Entitlement expiry sweep finished", zap.Int("deactivated", n))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule '%s': %w", spec, err)
	}
	s.sched.Start()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *ExpirySweeper) Stop() {
	if s.sched == nil {
		return
	}
	<-s.sched.Stop().Done()
}
