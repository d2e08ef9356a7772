package core

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

// DefaultEmployeeRole is assigned to self-registered employees.
const DefaultEmployeeRole = "empleado"

// EmployeeService manages employee accounts. Employees never affect entitlements.
type EmployeeService struct {
	repo   db.EmployeeRepository
	shops  db.ShopRepository
	audit  *AuditService
	logger *zap.Logger
	now    Clock
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(repo db.EmployeeRepository, shops db.ShopRepository, audit *AuditService, logger *zap.Logger, opts ...Option) *EmployeeService {
	o := applyOptions(opts)
	return &EmployeeService{repo: repo, shops: shops, audit: audit, logger: logger, now: o.now}
}

// List returns the shop's employees.
func (s *EmployeeService) List(ctx context.Context, shopID string) ([]*models.Employee, error) {
	employees, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, storageErr("list employees", err)
	}
	return employees, nil
}

// ensureUnlinked fails with ErrEmployeeExists when authUID already belongs to an employee.
func (s *EmployeeService) ensureUnlinked(ctx context.Context, authUID string) error {
	if authUID == "" {
		return nil
	}
	_, err := s.repo.FindByAuthUID(ctx, authUID)
	switch {
	case err == nil:
		return ErrEmployeeExists
	case errors.Is(err, db.ErrNotFound):
		return nil
	default:
		return storageErr("find employee", err)
	}
}

// Create adds an employee on behalf of the shop owner.
func (s *EmployeeService) Create(ctx context.Context, shopID string, actor Actor, req models.CreateEmployeeRequest) (*models.Employee, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureUnlinked(ctx, req.AuthUID); err != nil {
		return nil, err
	}

	now := s.now()
	emp := &models.Employee{
		ShopID:    shopID,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		AuthUID:   req.AuthUID,
		Enabled:   req.Enabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.repo.Create(ctx, shopID, emp); err != nil {
		return nil, storageErr("create employee", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionEmployeeCreate, "EMPLOYEE", emp.ID, nil)
	return emp, nil
}

// Update edits name, role or the enabled flag.
func (s *EmployeeService) Update(ctx context.Context, shopID, employeeID string, actor Actor, req models.UpdateEmployeeRequest) (*models.Employee, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	emp, err := s.repo.GetByID(ctx, shopID, employeeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, storageErr("get employee", err)
	}
	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		emp.Role = strings.TrimSpace(*req.Role)
	}
	if req.Enabled != nil {
		emp.Enabled = *req.Enabled
	}
	emp.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, shopID, emp); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, storageErr("update employee", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionEmployeeUpdate, "EMPLOYEE", emp.ID, map[string]interface{}{"enabled": emp.Enabled})
	return emp, nil
}

// Delete removes an employee account.
func (s *EmployeeService) Delete(ctx context.Context, shopID, employeeID string, actor Actor) error {
	if err := s.repo.Delete(ctx, shopID, employeeID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrEmployeeNotFound
		}
		return storageErr("delete employee", err)
	}
	s.audit.Record(ctx, actor, shopID, ActionEmployeeDelete, "EMPLOYEE", employeeID, nil)
	return nil
}

// SelfRegister links the caller to the shop registered under req.CUIT as a
// disabled employee. The owner has to enable the account before it can sign in.
func (s *EmployeeService) SelfRegister(ctx context.Context, actor Actor, email string, req models.EmployeeSelfRegisterRequest) (*models.Employee, error) {
	if actor.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	req.CUIT = strings.TrimSpace(req.CUIT)
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	shop, err := s.shops.GetByCUIT(ctx, req.CUIT)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrShopNotFound
		}
		return nil, storageErr("lookup shop by CUIT", err)
	}
	if shop.ID == actor.UserID {
		return nil, ErrForbidden
	}
	if err := s.ensureUnlinked(ctx, actor.UserID); err != nil {
		return nil, err
	}

	now := s.now()
	emp := &models.Employee{
		ShopID:    shop.ID,
		Name:      req.Name,
		Email:     email,
		Role:      DefaultEmployeeRole,
		AuthUID:   actor.UserID,
		Enabled:   false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.repo.Create(ctx, shop.ID, emp); err != nil {
		return nil, storageErr("create employee", err)
	}
	s.logger.Info("Employee self-registered", zap.String("shop_id", shop.ID), zap.String("employee_id", emp.ID))
	s.audit.Record(ctx, actor, shop.ID, ActionEmployeeSelfSignup, "EMPLOYEE", emp.ID, nil)
	return emp, nil
}
