package memstore

import (
	"context"
	"fmt"
	"time"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

type entitlementRepository struct{ s *Store }

// byShopLocked returns copies of the shop's records in creation order. Callers hold s.mu.
func (r *entitlementRepository) byShopLocked(shopID string) []*models.Entitlement {
	var out []*models.Entitlement
	for _, e := range r.s.entitlements {
		if e.ShopID == shopID {
			e := e
			out = append(out, &e)
		}
	}
	db.SortEntitlements(out)
	return out
}

func (r *entitlementRepository) ListByShop(_ context.Context, shopID string) ([]*models.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byShopLocked(shopID), nil
}

func (r *entitlementRepository) Create(_ context.Context, e *models.Entitlement) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = newID()
	r.s.entitlements[e.ID] = *e
	return e.ID, nil
}

func (r *entitlementRepository) ConsumeOne(_ context.Context, shopID string, at time.Time, pick db.ConsumePicker) (*models.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	target := pick(r.byShopLocked(shopID))
	if target == nil {
		return nil, fmt.Errorf("shop '%s': %w", shopID, db.ErrNoCapacity)
	}
	target.ApplyConsumption(at)
	r.s.entitlements[target.ID] = *target
	return target, nil
}

func (r *entitlementRepository) Restore(_ context.Context, entitlementID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entitlements[entitlementID]
	if !ok {
		return fmt.Errorf("entitlement '%s': %w", entitlementID, db.ErrNotFound)
	}
	e.ApplyRestore(at)
	r.s.entitlements[entitlementID] = e
	return nil
}

func (r *entitlementRepository) CreateTrial(_ context.Context, trial *models.Entitlement) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.shops[trial.ShopID]
	if !ok {
		return "", fmt.Errorf("shop '%s': %w", trial.ShopID, db.ErrNotFound)
	}
	if shop.TrialUsed || len(r.byShopLocked(trial.ShopID)) > 0 {
		return "", fmt.Errorf("trial for shop '%s': %w", trial.ShopID, db.ErrAlreadyExists)
	}
	trial.ID = newID()
	r.s.entitlements[trial.ID] = *trial
	shop.TrialUsed = true
	shop.UpdatedAt = trial.CreatedAt
	r.s.shops[shop.ID] = shop
	return trial.ID, nil
}

func (r *entitlementRepository) ListExpiredActive(_ context.Context, now time.Time) ([]*models.Entitlement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Entitlement
	for _, e := range r.s.entitlements {
		if e.Active && e.EndDate.Before(now) {
			e := e
			out = append(out, &e)
		}
	}
	db.SortEntitlements(out)
	return out, nil
}

func (r *entitlementRepository) Deactivate(_ context.Context, entitlementID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entitlements[entitlementID]
	if !ok {
		return fmt.Errorf("entitlement '%s': %w", entitlementID, db.ErrNotFound)
	}
	e.Active = false
	e.UpdatedAt = at
	r.s.entitlements[entitlementID] = e
	return nil
}
