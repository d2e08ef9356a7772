package db

import (
	"context"
	"errors"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"lubricentro-backend/internal/models"
)

// firestoreEntitlementRepository implements EntitlementRepository using Firestore.
// Counter changes run inside transactions so concurrent saves for one shop
// can never over-draw a record.
type firestoreEntitlementRepository struct {
	client *firestore.Client
}

// NewFirestoreEntitlementRepository creates a new instance of firestoreEntitlementRepository.
func NewFirestoreEntitlementRepository(client *firestore.Client) EntitlementRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for EntitlementRepository.")
	}
	return &firestoreEntitlementRepository{client: client}
}

func (r *firestoreEntitlementRepository) byShop(shopID string) firestore.Query {
	return r.client.Collection(entitlementsCollection).Where("shopId", "==", shopID)
}

// ListByShop returns every record of the shop, oldest first.
func (r *firestoreEntitlementRepository) ListByShop(ctx context.Context, shopID string) ([]*models.Entitlement, error) {
	if shopID == "" {
		return nil, errors.New("shopID cannot be empty for ListByShop operation")
	}
	records, err := readEntitlements(r.byShop(shopID).Documents(ctx))
	if err != nil {
		return nil, classify(err, "failed to list entitlements for shop '%s'", shopID)
	}
	return records, nil
}

// Create stores a record with an auto-generated ID.
func (r *firestoreEntitlementRepository) Create(ctx context.Context, e *models.Entitlement) (string, error) {
	docRef := r.client.Collection(entitlementsCollection).NewDoc()
	e.ID = docRef.ID
	if _, err := docRef.Create(ctx, e); err != nil {
		return "", classify(err, "failed to create entitlement for shop '%s'", e.ShopID)
	}
	return docRef.ID, nil
}

// ConsumeOne reads the shop's records, lets pick choose one, and applies one
// consumption to it within a single transaction. Firestore retries the
// function on contention, so pick always sees committed counters.
func (r *firestoreEntitlementRepository) ConsumeOne(ctx context.Context, shopID string, at time.Time, pick ConsumePicker) (*models.Entitlement, error) {
	var consumed *models.Entitlement
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		consumed = nil
		records, err := readEntitlements(tx.Documents(r.byShop(shopID)))
		if err != nil {
			return err
		}
		target := pick(records)
		if target == nil {
			return ErrNoCapacity
		}
		target.ApplyConsumption(at)
		ref := r.client.Collection(entitlementsCollection).Doc(target.ID)
		if err := tx.Update(ref, []firestore.Update{
			{Path: "changesUsed", Value: target.ChangesUsed},
			{Path: "availableChanges", Value: target.AvailableChanges},
			{Path: "updatedAt", Value: at},
		}); err != nil {
			return err
		}
		consumed = target
		return nil
	})
	if err != nil {
		return nil, classify(err, "failed to consume entitlement for shop '%s'", shopID)
	}
	return consumed, nil
}

// Restore returns one change to the record, undoing a prior ConsumeOne.
func (r *firestoreEntitlementRepository) Restore(ctx context.Context, entitlementID string, at time.Time) error {
	ref := r.client.Collection(entitlementsCollection).Doc(entitlementID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		e, err := decodeEntitlement(snap)
		if err != nil {
			return err
		}
		e.ApplyRestore(at)
		return tx.Update(ref, []firestore.Update{
			{Path: "changesUsed", Value: e.ChangesUsed},
			{Path: "availableChanges", Value: e.AvailableChanges},
			{Path: "updatedAt", Value: at},
		})
	})
	if err != nil {
		return classify(err, "failed to restore entitlement '%s'", entitlementID)
	}
	return nil
}

// CreateTrial stores the trial grant and flags the shop profile in one transaction.
// It fails with ErrAlreadyExists when the shop already used its trial or holds
// any entitlement record, and with ErrNotFound when the shop does not exist.
func (r *firestoreEntitlementRepository) CreateTrial(ctx context.Context, trial *models.Entitlement) (string, error) {
	shopRef := r.client.Collection(shopsCollection).Doc(trial.ShopID)
	docRef := r.client.Collection(entitlementsCollection).NewDoc()

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		shopSnap, err := tx.Get(shopRef)
		if err != nil {
			return err
		}
		var shop models.ShopProfile
		if err := shopSnap.DataTo(&shop); err != nil {
			return err
		}
		if shop.TrialUsed {
			return ErrAlreadyExists
		}

		iter := tx.Documents(r.byShop(trial.ShopID).Limit(1))
		_, err = iter.Next()
		iter.Stop()
		if err == nil {
			return ErrAlreadyExists
		}
		if err != iterator.Done {
			return err
		}

		trial.ID = docRef.ID
		if err := tx.Create(docRef, trial); err != nil {
			return err
		}
		return tx.Update(shopRef, []firestore.Update{
			{Path: "trialUsed", Value: true},
			{Path: "updatedAt", Value: trial.CreatedAt},
		})
	})
	if err != nil {
		trial.ID = ""
		return "", classify(err, "failed to activate trial for shop '%s'", trial.ShopID)
	}
	return docRef.ID, nil
}

// ListExpiredActive returns records still flagged active whose window closed before now.
// Requires the composite index (active ASC, endDate ASC).
func (r *firestoreEntitlementRepository) ListExpiredActive(ctx context.Context, now time.Time) ([]*models.Entitlement, error) {
	query := r.client.Collection(entitlementsCollection).
		Where("active", "==", true).
		Where("endDate", "<", now)
	records, err := readEntitlements(query.Documents(ctx))
	if err != nil {
		return nil, classify(err, "failed to list expired entitlements")
	}
	return records, nil
}

// Deactivate clears the active flag. Records are never deleted.
func (r *firestoreEntitlementRepository) Deactivate(ctx context.Context, entitlementID string, at time.Time) error {
	_, err := r.client.Collection(entitlementsCollection).Doc(entitlementID).Update(ctx, []firestore.Update{
		{Path: "active", Value: false},
		{Path: "updatedAt", Value: at},
	})
	if err != nil {
		return classify(err, "failed to deactivate entitlement '%s'", entitlementID)
	}
	return nil
}
