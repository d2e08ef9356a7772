package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// Thresholds below which an otherwise active subscription is flagged to the user.
const (
	expiringSoonDays = 7
	lowChangesLimit  = 10
)

// Status codes reported by EntitlementService.Status.
const (
	StatusNoSubscription = "NO_SUBSCRIPTION"
	StatusExpired        = "EXPIRED_SUBSCRIPTION"
	StatusNoChangesLeft  = "NO_CHANGES_LEFT"
	StatusInactive       = "INACTIVE"
	StatusActiveTrial    = "ACTIVE_TRIAL"
	StatusExpiringSoon   = "EXPIRING_SOON"
	StatusLowChanges     = "LOW_CHANGES"
	StatusActive         = "ACTIVE"
)

// Evaluation is the outcome of a successful entitlement check.
type Evaluation struct {
	// Authoritative is the record shown to the user: the primary grant when usable, else the first add-on.
	Authoritative *models.Entitlement `json:"entitlement"`
	// RemainingChanges sums every usable record; -1 means unlimited.
	RemainingChanges int `json:"remainingChanges"`
	RemainingDays    int `json:"remainingDays"`
}

// EntitlementStatus is the user-facing summary of a shop's subscription state.
type EntitlementStatus struct {
	Code             string              `json:"code"`
	Message          string              `json:"message"`
	Entitlement      *models.Entitlement `json:"entitlement,omitempty"`
	RemainingChanges int                 `json:"remainingChanges"`
	RemainingDays    int                 `json:"remainingDays"`
}

// EntitlementService decides whether a shop may record more oil changes and
// consumes its allowance.
type EntitlementService struct {
	repo   db.EntitlementRepository
	logger *zap.Logger
	now    Clock
}

// NewEntitlementService creates a new EntitlementService.
func NewEntitlementService(repo db.EntitlementRepository, logger *zap.Logger, opts ...Option) *EntitlementService {
	o := applyOptions(opts)
	return &EntitlementService{repo: repo, logger: logger, now: o.now}
}

// List returns every entitlement record of the shop.
func (s *EntitlementService) List(ctx context.Context, shopID string) ([]*models.Entitlement, error) {
	records, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, storageErr("list entitlements", err)
	}
	return records, nil
}

// Evaluate reports the authoritative usable record, or the reason none exists.
func (s *EntitlementService) Evaluate(ctx context.Context, shopID string) (*Evaluation, error) {
	records, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, storageErr("list entitlements", err)
	}
	return evaluate(records, s.now())
}

func evaluate(records []*models.Entitlement, now time.Time) (*Evaluation, error) {
	var usable []*models.Entitlement
	for _, e := range records {
		if e.Usable(now) {
			usable = append(usable, e)
		}
	}
	if len(usable) == 0 {
		return nil, unusableReason(records, now)
	}

	authoritative := usable[0]
	for _, e := range usable {
		if !e.AddOn {
			authoritative = e
			break
		}
	}

	remaining := 0
	for _, e := range usable {
		if e.Unlimited() {
			remaining = -1
			break
		}
		remaining += e.AvailableChanges
	}

	return &Evaluation{
		Authoritative:    authoritative,
		RemainingChanges: remaining,
		RemainingDays:    authoritative.RemainingDays(now),
	}, nil
}

// unusableReason picks the most specific failure for a shop with no usable record.
func unusableReason(records []*models.Entitlement, now time.Time) error {
	if len(records) == 0 {
		return ErrNoEntitlement
	}
	var exhausted, expired bool
	for _, e := range records {
		if !e.Active {
			continue
		}
		if e.Expired(now) {
			expired = true
		} else if !e.HasCapacity() {
			exhausted = true
		}
	}
	switch {
	case exhausted:
		return ErrEntitlementExhausted
	case expired:
		return ErrEntitlementExpired
	default:
		return ErrEntitlementInactive
	}
}

// consumptionRank orders candidates: limited add-ons, then the limited primary, then unlimited grants.
func consumptionRank(e *models.Entitlement) int {
	switch {
	case e.Unlimited():
		return 2
	case e.AddOn:
		return 0
	default:
		return 1
	}
}

// pickForConsumption returns the picker used inside the atomic consume section.
func pickForConsumption(now time.Time) db.ConsumePicker {
	return func(records []*models.Entitlement) *models.Entitlement {
		var candidates []*models.Entitlement
		for _, e := range records {
			if e.Usable(now) {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 {
			return nil
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			ri, rj := consumptionRank(candidates[i]), consumptionRank(candidates[j])
			if ri != rj {
				return ri < rj
			}
			return candidates[i].EndDate.Before(candidates[j].EndDate)
		})
		return candidates[0]
	}
}

// Consume atomically takes one change from the shop's allowance and returns
// the record it was charged to.
func (s *EntitlementService) Consume(ctx context.Context, shopID string) (*models.Entitlement, error) {
	now := s.now()
	consumed, err := s.repo.ConsumeOne(ctx, shopID, now, pickForConsumption(now))
	if err == nil {
		return consumed, nil
	}
	if !errors.Is(err, db.ErrNoCapacity) {
		return nil, storageErr("consume entitlement", err)
	}
	// Explain the refusal with the same rules Evaluate uses.
	if _, evalErr := s.Evaluate(ctx, shopID); evalErr != nil {
		return nil, evalErr
	}
	return nil, ErrEntitlementExhausted
}

// Restore gives back a change taken by Consume when the guarded write failed.
func (s *EntitlementService) Restore(ctx context.Context, entitlementID string) error {
	if err := s.repo.Restore(ctx, entitlementID, s.now()); err != nil {
		return storageErr(fmt.Sprintf("restore entitlement %s", entitlementID), err)
	}
	return nil
}

// Status summarises the shop's subscription for display.
func (s *EntitlementService) Status(ctx context.Context, shopID string) (*EntitlementStatus, error) {
	eval, err := s.Evaluate(ctx, shopID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoEntitlement):
		return &EntitlementStatus{Code: StatusNoSubscription, Message: "No active subscription. Request a plan to keep recording oil changes."}, nil
	case errors.Is(err, ErrEntitlementExhausted):
		return &EntitlementStatus{Code: StatusNoChangesLeft, Message: "All oil changes of the current plan have been used."}, nil
	case errors.Is(err, ErrEntitlementExpired):
		return &EntitlementStatus{Code: StatusExpired, Message: "The subscription has expired."}, nil
	case errors.Is(err, ErrEntitlementInactive):
		return &EntitlementStatus{Code: StatusInactive, Message: "The subscription is not active."}, nil
	default:
		return nil, err
	}

	st := &EntitlementStatus{
		Entitlement:      eval.Authoritative,
		RemainingChanges: eval.RemainingChanges,
		RemainingDays:    eval.RemainingDays,
	}
	changes := "unlimited oil changes"
	if eval.RemainingChanges >= 0 {
		changes = fmt.Sprintf("%d oil changes", eval.RemainingChanges)
	}
	switch {
	case eval.Authoritative.Trial:
		st.Code = StatusActiveTrial
		st.Message = fmt.Sprintf("Trial active: %s left, %d days remaining.", changes, eval.RemainingDays)
	case eval.RemainingDays < expiringSoonDays:
		st.Code = StatusExpiringSoon
		st.Message = fmt.Sprintf("The subscription expires in %d days.", eval.RemainingDays)
	case eval.RemainingChanges >= 0 && eval.RemainingChanges < lowChangesLimit:
		st.Code = StatusLowChanges
		st.Message = fmt.Sprintf("Only %s left.", changes)
	default:
		st.Code = StatusActive
		st.Message = fmt.Sprintf("Subscription active: %s left, %d days remaining.", changes, eval.RemainingDays)
	}
	return st, nil
}
