package db

import (
	"context"
	"time"

	"lubricentro-backend/internal/models"
)

// ShopRepository defines storage operations for shop profiles.
type ShopRepository interface {
	GetByID(ctx context.Context, shopID string) (*models.ShopProfile, error)
	GetByCUIT(ctx context.Context, cuit string) (*models.ShopProfile, error)
	Create(ctx context.Context, shop *models.ShopProfile) error // ErrAlreadyExists if the ID is taken
	Update(ctx context.Context, shop *models.ShopProfile) error
}

// ConsumePicker chooses which of a shop's entitlement records absorbs one change.
// It receives the records as read inside the atomic section and returns nil when none qualifies.
type ConsumePicker func(records []*models.Entitlement) *models.Entitlement

// EntitlementRepository defines storage operations for entitlement records.
// ConsumeOne, Restore and CreateTrial are applied atomically with respect to
// concurrent callers for the same shop.
type EntitlementRepository interface {
	ListByShop(ctx context.Context, shopID string) ([]*models.Entitlement, error)
	Create(ctx context.Context, e *models.Entitlement) (string, error)
	ConsumeOne(ctx context.Context, shopID string, at time.Time, pick ConsumePicker) (*models.Entitlement, error)
	Restore(ctx context.Context, entitlementID string, at time.Time) error
	CreateTrial(ctx context.Context, trial *models.Entitlement) (string, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Entitlement, error)
	Deactivate(ctx context.Context, entitlementID string, at time.Time) error
}

// OilChangeRepository defines storage operations for a shop's service records.
type OilChangeRepository interface {
	List(ctx context.Context, shopID string) ([]*models.OilChange, error) // Newest first
	GetByID(ctx context.Context, shopID, oilChangeID string) (*models.OilChange, error)
	Create(ctx context.Context, shopID string, rec *models.OilChange) (string, error)
	Update(ctx context.Context, shopID string, rec *models.OilChange) error
	Delete(ctx context.Context, shopID, oilChangeID string) error
}

// EmployeeRepository defines storage operations for shop employees.
type EmployeeRepository interface {
	ListByShop(ctx context.Context, shopID string) ([]*models.Employee, error)
	GetByID(ctx context.Context, shopID, employeeID string) (*models.Employee, error)
	FindByAuthUID(ctx context.Context, authUID string) (*models.Employee, error) // Searches every shop
	Create(ctx context.Context, shopID string, emp *models.Employee) (string, error)
	Update(ctx context.Context, shopID string, emp *models.Employee) error
	Delete(ctx context.Context, shopID, employeeID string) error
}

// SubscriptionRequestRepository defines storage operations for the upgrade request queue.
type SubscriptionRequestRepository interface {
	Create(ctx context.Context, req *models.SubscriptionRequest) (string, error)
	ListByShop(ctx context.Context, shopID string) ([]*models.SubscriptionRequest, error) // Newest first
}

// AuditRepository defines the interface for audit log storage.
type AuditRepository interface {
	Create(ctx context.Context, logEntry models.AuditLog) error
}
