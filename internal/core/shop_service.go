package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// ShopService handles shop registration, the profile, and caller access resolution.
type ShopService struct {
	shops     db.ShopRepository
	employees db.EmployeeRepository
	trials    *TrialService
	audit     *AuditService
	logger    *zap.Logger
	now       Clock
}

// NewShopService creates a new ShopService.
func NewShopService(
	shops db.ShopRepository,
	employees db.EmployeeRepository,
	trials *TrialService,
	audit *AuditService,
	logger *zap.Logger,
	opts ...Option,
) *ShopService {
	o := applyOptions(opts)
	return &ShopService{shops: shops, employees: employees, trials: trials, audit: audit, logger: logger, now: o.now}
}

// Register creates the caller's shop profile and activates its trial.
// The caller's auth UID becomes the shop ID.
func (s *ShopService) Register(ctx context.Context, actor Actor, req models.RegisterShopRequest) (*models.ShopProfile, *models.Entitlement, error) {
	if actor.UserID == "" {
		return nil, nil, ErrNotAuthenticated
	}
	req.CUIT = strings.TrimSpace(req.CUIT)
	req.FantasyName = strings.TrimSpace(req.FantasyName)
	req.Responsible = strings.TrimSpace(req.Responsible)
	if err := validateStruct(req); err != nil {
		return nil, nil, err
	}

	if existing, err := s.shops.GetByCUIT(ctx, req.CUIT); err == nil && existing.ID != actor.UserID {
		return nil, nil, ErrShopExists
	} else if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, nil, storageErr("lookup shop by CUIT", err)
	}
	if _, err := s.employees.FindByAuthUID(ctx, actor.UserID); err == nil {
		// An employee account cannot also own a shop.
		return nil, nil, ErrForbidden
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, nil, storageErr("lookup employee by auth UID", err)
	}

	now := s.now()
	shop := &models.ShopProfile{
		ID:          actor.UserID,
		FantasyName: req.FantasyName,
		Responsible: req.Responsible,
		CUIT:        req.CUIT,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		LogoURL:     req.LogoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.shops.Create(ctx, shop); err != nil {
		if errors.Is(err, db.ErrAlreadyExists) {
			return nil, nil, ErrShopExists
		}
		return nil, nil, storageErr("create shop", err)
	}
	s.audit.Record(ctx, actor, shop.ID, ActionShopRegister, "SHOP", shop.ID, map[string]interface{}{"cuit": shop.CUIT})

	trial, err := s.trials.Activate(ctx, shop.ID, actor)
	if err != nil {
		s.logger.Error("Shop registered but trial activation failed", zap.String("shop_id", shop.ID), zap.Error(err))
		return shop, nil, err
	}
	shop.TrialUsed = true
	return shop, trial, nil
}

// Get returns the shop profile.
func (s *ShopService) Get(ctx context.Context, shopID string) (*models.ShopProfile, error) {
	shop, err := s.shops.GetByID(ctx, shopID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, storageErr("get shop", err)
	}
	return shop, nil
}

// Update applies a partial profile edit. The CUIT cannot be changed.
func (s *ShopService) Update(ctx context.Context, shopID string, actor Actor, req models.UpdateShopRequest) (*models.ShopProfile, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	shop, err := s.Get(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if req.FantasyName != nil {
		shop.FantasyName = strings.TrimSpace(*req.FantasyName)
	}
	if req.Responsible != nil {
		shop.Responsible = strings.TrimSpace(*req.Responsible)
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Email != nil {
		shop.Email = *req.Email
	}
	if req.LogoURL != nil {
		shop.LogoURL = *req.LogoURL
	}
	shop.UpdatedAt = s.now()

	if err := s.shops.Update(ctx, shop); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, storageErr("update shop", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionShopUpdate, "SHOP", shopID, nil)
	return shop, nil
}

// ResolveAccess determines which shop an authenticated user acts for and in which role.
// Owners are found by profile ID; everyone else must be an enabled employee.
func (s *ShopService) ResolveAccess(ctx context.Context, uid, displayName string) (*models.Access, error) {
	if uid == "" {
		return nil, ErrNotAuthenticated
	}
	shop, err := s.shops.GetByID(ctx, uid)
	if err == nil {
		name := displayName
		if name == "" {
			name = shop.Responsible
		}
		return &models.Access{UserID: uid, ShopID: shop.ID, Role: models.RoleOwner, DisplayName: name}, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, storageErr("get shop", err)
	}

	emp, err := s.employees.FindByAuthUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, storageErr("find employee", err)
	}
	if !emp.Enabled {
		return nil, ErrAccountDisabled
	}
	return &models.Access{
		UserID:      uid,
		ShopID:      emp.ShopID,
		Role:        models.RoleEmployee,
		DisplayName: emp.Name,
		EmployeeID:  emp.ID,
	}, nil
}
