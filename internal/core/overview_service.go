package core

import (
	"context"

	"golang.org/x/sync/errgroup"

	"lubricentro-backend/internal/models"
)

// Overview is the dashboard payload shown after sign-in.
type Overview struct {
	Shop       *models.ShopProfile `json:"shop"`
	Status     *EntitlementStatus  `json:"status"`
	NextTicket string              `json:"nextTicket"`
}

// OverviewService assembles the dashboard from independent reads.
type OverviewService struct {
	shops        *ShopService
	entitlements *EntitlementService
	oilChanges   *OilChangeService
}

// NewOverviewService creates a new OverviewService.
func NewOverviewService(shops *ShopService, entitlements *EntitlementService, oilChanges *OilChangeService) *OverviewService {
	return &OverviewService{shops: shops, entitlements: entitlements, oilChanges: oilChanges}
}

// Get fetches the profile, entitlement status and next ticket concurrently.
func (s *OverviewService) Get(ctx context.Context, shopID string) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		shop, err := s.shops.Get(gctx, shopID)
		out.Shop = shop
		return err
	})
	g.Go(func() error {
		st, err := s.entitlements.Status(gctx, shopID)
		out.Status = st
		return err
	})
	g.Go(func() error {
		ticket, err := s.oilChanges.SuggestTicket(gctx, shopID)
		out.NextTicket = ticket
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
