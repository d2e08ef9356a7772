package db

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"

	"lubricentro-backend/internal/models"
)

type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates an AuditRepository writing to the auditLogs collection.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for AuditRepository.")
	}
	return &firestoreAuditRepository{client: client}
}

// Create appends an entry. Timestamp is filled by the server when zero.
func (r *firestoreAuditRepository) Create(ctx context.Context, logEntry models.AuditLog) error {
	if _, err := r.client.Collection(auditLogsCollection).NewDoc().Create(ctx, logEntry); err != nil {
		return classify(err, "failed to write audit log '%s'", logEntry.Action)
	}
	return nil
}
