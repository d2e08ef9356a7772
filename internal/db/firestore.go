package db

import (
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lubricentro-backend/internal/models"
)

// Firestore layout. Oil changes and employees live in sub-collections of the shop document.
const (
	shopsCollection                = "lubricentros"
	entitlementsCollection         = "entitlements"
	oilChangesCollection           = "oilChanges"
	employeesCollection            = "employees"
	subscriptionRequestsCollection = "subscriptionRequests"
	auditLogsCollection            = "auditLogs"
	cuitsCollection                = "cuits" // one reservation document per registered tax id
)

// classify wraps a Firestore error with context, translating gRPC status codes
// into the package sentinels so callers can use errors.Is.
func classify(err error, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrNoCapacity):
		return fmt.Errorf("%s: %w", msg, err)
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	case status.Code(err) == codes.AlreadyExists:
		return fmt.Errorf("%s: %w", msg, ErrAlreadyExists)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func decodeEntitlement(doc *firestore.DocumentSnapshot) (*models.Entitlement, error) {
	var e models.Entitlement
	if err := doc.DataTo(&e); err != nil {
		return nil, fmt.Errorf("failed to decode entitlement '%s': %w", doc.Ref.ID, err)
	}
	e.ID = doc.Ref.ID
	return &e, nil
}

// readEntitlements drains iter. It stops the iterator on return.
func readEntitlements(iter *firestore.DocumentIterator) ([]*models.Entitlement, error) {
	defer iter.Stop()
	var out []*models.Entitlement
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		e, err := decodeEntitlement(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	SortEntitlements(out)
	return out, nil
}

// SortEntitlements orders records by creation time, then ID, so that every
// store hands records to pickers in the same order.
func SortEntitlements(records []*models.Entitlement) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}
