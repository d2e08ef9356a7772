package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/db/memstore"
	"lubricentro-backend/internal/models"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock { return func() time.Time { return fixedNow } }

// countingEntitlementRepo records how often the entitlement store is reached.
type countingEntitlementRepo struct {
	db.EntitlementRepository
	lists    atomic.Int32
	consumes atomic.Int32
}

func (r *countingEntitlementRepo) ListByShop(ctx context.Context, shopID string) ([]*models.Entitlement, error) {
	r.lists.Add(1)
	return r.EntitlementRepository.ListByShop(ctx, shopID)
}

func (r *countingEntitlementRepo) ConsumeOne(ctx context.Context, shopID string, at time.Time, pick db.ConsumePicker) (*models.Entitlement, error) {
	r.consumes.Add(1)
	return r.EntitlementRepository.ConsumeOne(ctx, shopID, at, pick)
}

// oilChangeRepoMock overrides selected calls of an underlying repository.
type oilChangeRepoMock struct {
	db.OilChangeRepository
	createFn func(ctx context.Context, shopID string, rec *models.OilChange) (string, error)
	creates  atomic.Int32
}

func (m *oilChangeRepoMock) Create(ctx context.Context, shopID string, rec *models.OilChange) (string, error) {
	m.creates.Add(1)
	if m.createFn != nil {
		return m.createFn(ctx, shopID, rec)
	}
	return m.OilChangeRepository.Create(ctx, shopID, rec)
}

type fixture struct {
	store         *memstore.Store
	entRepo       *countingEntitlementRepo
	oilRepo       *oilChangeRepoMock
	audit         *AuditService
	entitlements  *EntitlementService
	trials        *TrialService
	oilChanges    *OilChangeService
	shops         *ShopService
	employees     *EmployeeService
	subscriptions *SubscriptionService
	mailer        *fakeMailer
}

type fakeMailer struct {
	mu      sync.Mutex
	sent    []string
	err     error
	release chan struct{} // when set, Send blocks until it is closed
	ctxErrs []error
}

func (m *fakeMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctxErrs = append(m.ctxErrs, ctx.Err())
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, subject+"\n"+body)
	return nil
}

func (m *fakeMailer) messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	store := memstore.New()
	f := &fixture{
		store:   store,
		entRepo: &countingEntitlementRepo{EntitlementRepository: store.Entitlements()},
		oilRepo: &oilChangeRepoMock{OilChangeRepository: store.OilChanges()},
		mailer:  &fakeMailer{},
	}
	clock := WithClock(fixedClock())
	f.audit = NewAuditService(store.Audit(), logger)
	f.entitlements = NewEntitlementService(f.entRepo, logger, clock)
	f.trials = NewTrialService(f.entRepo, f.audit, TrialConfig{Days: 30, Changes: 10}, logger, clock)
	f.oilChanges = NewOilChangeService(f.oilRepo, f.entitlements, f.audit, logger, clock)
	f.shops = NewShopService(store.Shops(), store.Employees(), f.trials, f.audit, logger, clock)
	f.employees = NewEmployeeService(store.Employees(), store.Shops(), f.audit, logger, clock)
	f.subscriptions = NewSubscriptionService(store.SubscriptionRequests(), store.Shops(), NewPlanCatalog(), f.mailer, "admin@example.com", f.audit, logger, clock)
	return f
}

func (f *fixture) seedShop(t *testing.T, id, cuit string) *models.ShopProfile {
	t.Helper()
	shop := &models.ShopProfile{
		ID:          id,
		FantasyName: "Lubri " + id,
		Responsible: "Owner " + id,
		CUIT:        cuit,
		CreatedAt:   fixedNow,
		UpdatedAt:   fixedNow,
	}
	require.NoError(t, f.store.Shops().Create(context.Background(), shop))
	return shop
}

// seedEntitlement stores e with counters derived from total and used.
func (f *fixture) seedEntitlement(t *testing.T, e models.Entitlement) *models.Entitlement {
	t.Helper()
	if e.StartDate.IsZero() {
		e.StartDate = fixedNow.AddDate(0, 0, -1)
	}
	if e.EndDate.IsZero() {
		e.EndDate = fixedNow.AddDate(0, 0, 29)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = e.StartDate
	}
	e.Recompute()
	_, err := f.store.Entitlements().Create(context.Background(), &e)
	require.NoError(t, err)
	return &e
}

func (f *fixture) entitlement(t *testing.T, shopID, id string) *models.Entitlement {
	t.Helper()
	records, err := f.store.Entitlements().ListByShop(context.Background(), shopID)
	require.NoError(t, err)
	for _, e := range records {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("entitlement %s not found", id)
	return nil
}

func validOilChange(ticket string) models.OilChangeRequest {
	return models.OilChangeRequest{
		VehicleID:      "AB123CD",
		ServiceDate:    fixedNow,
		OdometerKm:     85000,
		NextOdometerKm: 95000,
		OilBrand:       "YPF Elaion",
		Viscosity:      "10W-40",
		OilType:        "Semisintético",
		Filters:        map[string]string{"aceite": "", "aire": "sopleteado"},
		TicketNumber:   ticket,
		ContactName:    "Juan",
		ContactPhone:   "11 1234-5678",
	}
}

var owner = Actor{UserID: "owner-1", DisplayName: "Marta"}
