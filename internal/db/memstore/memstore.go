// Package memstore provides in-memory implementations of the db repository
// interfaces. A single mutex guards all collections, which gives ConsumeOne,
// Restore and CreateTrial the same all-or-nothing behaviour as the Firestore
// transactions. Values are copied on the way in and out.
package memstore

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

type oilChangeRow struct {
	rec models.OilChange
	seq uint64
}

// Store holds every collection of the application in memory.
type Store struct {
	mu           sync.Mutex
	seq          uint64
	shops        map[string]models.ShopProfile
	entitlements map[string]models.Entitlement
	oilChanges   map[string]map[string]oilChangeRow // shopID -> id -> row
	employees    map[string]map[string]models.Employee
	requests     map[string]models.SubscriptionRequest
	audit        []models.AuditLog
}

// New returns an empty store.
func New() *Store {
	return &Store{
		shops:        make(map[string]models.ShopProfile),
		entitlements: make(map[string]models.Entitlement),
		oilChanges:   make(map[string]map[string]oilChangeRow),
		employees:    make(map[string]map[string]models.Employee),
		requests:     make(map[string]models.SubscriptionRequest),
	}
}

func newID() string { return uuid.NewString() }

// Shops returns the shop repository view of the store.
func (s *Store) Shops() db.ShopRepository { return &shopRepository{s} }

// Entitlements returns the entitlement repository view of the store.
func (s *Store) Entitlements() db.EntitlementRepository { return &entitlementRepository{s} }

// OilChanges returns the oil-change repository view of the store.
func (s *Store) OilChanges() db.OilChangeRepository { return &oilChangeRepository{s} }

// Employees returns the employee repository view of the store.
func (s *Store) Employees() db.EmployeeRepository { return &employeeRepository{s} }

// SubscriptionRequests returns the subscription-request repository view of the store.
func (s *Store) SubscriptionRequests() db.SubscriptionRequestRepository {
	return &subscriptionRequestRepository{s}
}

// Audit returns the audit repository view of the store.
func (s *Store) Audit() db.AuditRepository { return &auditRepository{s} }

// AuditEntries returns a snapshot of every audit entry written so far.
func (s *Store) AuditEntries() []models.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuditLog(nil), s.audit...)
}

func cloneOilChange(rec models.OilChange) *models.OilChange {
	out := rec
	out.Filters = maps.Clone(rec.Filters)
	out.Extras = maps.Clone(rec.Extras)
	if rec.NextServiceDate != nil {
		t := *rec.NextServiceDate
		out.NextServiceDate = &t
	}
	return &out
}
