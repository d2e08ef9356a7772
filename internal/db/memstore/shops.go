package memstore

import (
	"context"
	"fmt"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

type shopRepository struct{ s *Store }

func (r *shopRepository) GetByID(_ context.Context, shopID string) (*models.ShopProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	shop, ok := r.s.shops[shopID]
	if !ok {
		return nil, fmt.Errorf("shop '%s': %w", shopID, db.ErrNotFound)
	}
	return &shop, nil
}

func (r *shopRepository) GetByCUIT(_ context.Context, cuit string) (*models.ShopProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, shop := range r.s.shops {
		if shop.CUIT == cuit {
			return &shop, nil
		}
	}
	return nil, fmt.Errorf("shop with CUIT '%s': %w", cuit, db.ErrNotFound)
}

func (r *shopRepository) Create(_ context.Context, shop *models.ShopProfile) error {
	if shop.ID == "" {
		return fmt.Errorf("shop ID cannot be empty for Create operation")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.shops[shop.ID]; ok {
		return fmt.Errorf("shop '%s': %w", shop.ID, db.ErrAlreadyExists)
	}
	for _, other := range r.s.shops {
		if shop.CUIT != "" && other.CUIT == shop.CUIT {
			return fmt.Errorf("shop with CUIT '%s': %w", shop.CUIT, db.ErrAlreadyExists)
		}
	}
	r.s.shops[shop.ID] = *shop
	return nil
}

func (r *shopRepository) Update(_ context.Context, shop *models.ShopProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.shops[shop.ID]
	if !ok {
		return fmt.Errorf("shop '%s': %w", shop.ID, db.ErrNotFound)
	}
	stored.FantasyName = shop.FantasyName
	stored.Responsible = shop.Responsible
	stored.Address = shop.Address
	stored.Phone = shop.Phone
	stored.Email = shop.Email
	stored.LogoURL = shop.LogoURL
	stored.UpdatedAt = shop.UpdatedAt
	r.s.shops[shop.ID] = stored
	return nil
}
