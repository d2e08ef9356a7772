package memstore

import (
	"context"
	"sort"
	"time"

	"lubricentro-backend/internal/models"
)

type subscriptionRequestRepository struct{ s *Store }

func (r *subscriptionRequestRepository) Create(_ context.Context, req *models.SubscriptionRequest) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req.ID = newID()
	r.s.requests[req.ID] = *req
	return req.ID, nil
}

func (r *subscriptionRequestRepository) ListByShop(_ context.Context, shopID string) ([]*models.SubscriptionRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.SubscriptionRequest
	for _, req := range r.s.requests {
		if req.ShopID == shopID {
			req := req
			out = append(out, &req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type auditRepository struct{ s *Store }

// Create stores the entry, stamping the current time when the caller left it
// unset as the Firestore server timestamp would.
func (r *auditRepository) Create(_ context.Context, logEntry models.AuditLog) error {
	if logEntry.Timestamp.IsZero() {
		logEntry.Timestamp = time.Now().UTC()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audit = append(r.s.audit, logEntry)
	return nil
}
