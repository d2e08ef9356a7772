package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"lubricentro-backend/internal/models"
)

// firestoreOilChangeRepository implements OilChangeRepository using the
// lubricentros/{shopId}/oilChanges sub-collection.
type firestoreOilChangeRepository struct {
	client *firestore.Client
}

// NewFirestoreOilChangeRepository creates a new instance of firestoreOilChangeRepository.
func NewFirestoreOilChangeRepository(client *firestore.Client) OilChangeRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for OilChangeRepository.")
	}
	return &firestoreOilChangeRepository{client: client}
}

func (r *firestoreOilChangeRepository) col(shopID string) *firestore.CollectionRef {
	return r.client.Collection(shopsCollection).Doc(shopID).Collection(oilChangesCollection)
}

// List returns all records of the shop ordered by creation time, newest first.
func (r *firestoreOilChangeRepository) List(ctx context.Context, shopID string) ([]*models.OilChange, error) {
	if shopID == "" {
		return nil, errors.New("shopID cannot be empty for List operation")
	}
	iter := r.col(shopID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var records []*models.OilChange
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to iterate oil changes for shop '%s'", shopID)
		}
		var rec models.OilChange
		if err := doc.DataTo(&rec); err != nil {
			log.Printf("Error decoding oil change (ID: %s) for shop '%s': %v. Skipping.", doc.Ref.ID, shopID, err)
			continue
		}
		rec.ID = doc.Ref.ID
		rec.ShopID = shopID
		records = append(records, &rec)
	}
	return records, nil
}

// GetByID retrieves a single record.
func (r *firestoreOilChangeRepository) GetByID(ctx context.Context, shopID, oilChangeID string) (*models.OilChange, error) {
	if shopID == "" || oilChangeID == "" {
		return nil, errors.New("shopID and oilChangeID are required for GetByID operation")
	}
	docSnap, err := r.col(shopID).Doc(oilChangeID).Get(ctx)
	if err != nil {
		return nil, classify(err, "failed to get oil change '%s'", oilChangeID)
	}
	var rec models.OilChange
	if err := docSnap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("failed to decode oil change '%s': %w", oilChangeID, err)
	}
	rec.ID = docSnap.Ref.ID
	rec.ShopID = shopID
	return &rec, nil
}

// Create stores the record with an auto-generated ID and sets rec.ID.
func (r *firestoreOilChangeRepository) Create(ctx context.Context, shopID string, rec *models.OilChange) (string, error) {
	docRef := r.col(shopID).NewDoc()
	rec.ID = docRef.ID
	rec.ShopID = shopID
	if _, err := docRef.Create(ctx, rec); err != nil {
		rec.ID = ""
		return "", classify(err, "failed to create oil change for shop '%s'", shopID)
	}
	return docRef.ID, nil
}

// Update replaces the stored record. It never creates a missing document.
func (r *firestoreOilChangeRepository) Update(ctx context.Context, shopID string, rec *models.OilChange) error {
	if rec.ID == "" {
		return errors.New("oil change ID cannot be empty for Update operation")
	}
	ref := r.col(shopID).Doc(rec.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, rec)
	})
	if err != nil {
		return classify(err, "failed to update oil change '%s'", rec.ID)
	}
	return nil
}

// Delete removes the record, reporting ErrNotFound when it does not exist.
func (r *firestoreOilChangeRepository) Delete(ctx context.Context, shopID, oilChangeID string) error {
	if _, err := r.col(shopID).Doc(oilChangeID).Delete(ctx, firestore.Exists); err != nil {
		return classify(err, "failed to delete oil change '%s'", oilChangeID)
	}
	return nil
}
