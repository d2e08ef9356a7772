package api

import (
	"context"
	"io"

	"lubricentro-backend/internal/core"
	"lubricentro-backend/internal/models"
)

// ShopService registers shops, edits their profile and resolves who the caller is.
type ShopService interface {
	Register(ctx context.Context, actor core.Actor, req models.RegisterShopRequest) (*models.ShopProfile, *models.Entitlement, error)
	Get(ctx context.Context, shopID string) (*models.ShopProfile, error)
	Update(ctx context.Context, shopID string, actor core.Actor, req models.UpdateShopRequest) (*models.ShopProfile, error)
	ResolveAccess(ctx context.Context, uid, displayName string) (*models.Access, error)
}

// OverviewService assembles the dashboard shown after sign-in.
type OverviewService interface {
	Get(ctx context.Context, shopID string) (*core.Overview, error)
}

// EntitlementService reports a shop's plans and whether it may record more changes.
type EntitlementService interface {
	List(ctx context.Context, shopID string) ([]*models.Entitlement, error)
	Status(ctx context.Context, shopID string) (*core.EntitlementStatus, error)
}

// TrialService grants the one-time free trial.
type TrialService interface {
	Activate(ctx context.Context, shopID string, actor core.Actor) (*models.Entitlement, error)
}

// SubscriptionService lists plans and queues upgrade requests for the administrator.
type SubscriptionService interface {
	Plans() []models.Plan
	Request(ctx context.Context, shopID string, actor core.Actor, req models.CreateSubscriptionRequest) (*models.SubscriptionRequest, error)
	List(ctx context.Context, shopID string) ([]*models.SubscriptionRequest, error)
}

// OilChangeService manages a shop's oil-change records.
type OilChangeService interface {
	Search(ctx context.Context, shopID, query string) ([]*models.OilChange, error)
	Get(ctx context.Context, shopID, oilChangeID string) (*models.OilChange, error)
	Create(ctx context.Context, shopID string, actor core.Actor, req models.OilChangeRequest) (*models.OilChange, error)
	Update(ctx context.Context, shopID, oilChangeID string, actor core.Actor, req models.OilChangeRequest) (*models.OilChange, error)
	Delete(ctx context.Context, shopID, oilChangeID string, actor core.Actor) error
	SuggestTicket(ctx context.Context, shopID string) (string, error)
}

// HandoffService prepares a record for the customer: chat link and receipt.
type HandoffService interface {
	WhatsAppLink(ctx context.Context, shopID, oilChangeID string) (*core.WhatsAppLink, error)
	Receipt(ctx context.Context, shopID, oilChangeID string) ([]byte, string, error)
}

// EmployeeService manages shop staff accounts.
type EmployeeService interface {
	List(ctx context.Context, shopID string) ([]*models.Employee, error)
	Create(ctx context.Context, shopID string, actor core.Actor, req models.CreateEmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, shopID, employeeID string, actor core.Actor, req models.UpdateEmployeeRequest) (*models.Employee, error)
	Delete(ctx context.Context, shopID, employeeID string, actor core.Actor) error
	SelfRegister(ctx context.Context, actor core.Actor, email string, req models.EmployeeSelfRegisterRequest) (*models.Employee, error)
}

// ReportService computes statistics and exports over a shop's records.
type ReportService interface {
	Summary(ctx context.Context, shopID string) (*core.ReportSummary, error)
	ExportCSV(ctx context.Context, shopID string, w io.Writer) error
}

// Services bundles everything SetupRoutes wires into handlers.
type Services struct {
	Shops         ShopService
	Overview      OverviewService
	Entitlements  EntitlementService
	Trials        TrialService
	Subscriptions SubscriptionService
	OilChanges    OilChangeService
	Handoff       HandoffService
	Employees     EmployeeService
	Reports       ReportService
}
