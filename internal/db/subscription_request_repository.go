package db

import (
	"context"
	"log"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"lubricentro-backend/internal/models"
)

type firestoreSubscriptionRequestRepository struct {
	client *firestore.Client
}

// NewFirestoreSubscriptionRequestRepository creates a SubscriptionRequestRepository over Firestore.
func NewFirestoreSubscriptionRequestRepository(client *firestore.Client) SubscriptionRequestRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SubscriptionRequestRepository.")
	}
	return &firestoreSubscriptionRequestRepository{client: client}
}

func (r *firestoreSubscriptionRequestRepository) Create(ctx context.Context, req *models.SubscriptionRequest) (string, error) {
	docRef := r.client.Collection(subscriptionRequestsCollection).NewDoc()
	req.ID = docRef.ID
	if _, err := docRef.Create(ctx, req); err != nil {
		req.ID = ""
		return "", classify(err, "failed to create subscription request for shop '%s'", req.ShopID)
	}
	return docRef.ID, nil
}

// ListByShop sorts in memory; the queue per shop is small and this avoids a composite index.
func (r *firestoreSubscriptionRequestRepository) ListByShop(ctx context.Context, shopID string) ([]*models.SubscriptionRequest, error) {
	iter := r.client.Collection(subscriptionRequestsCollection).Where("shopId", "==", shopID).Documents(ctx)
	defer iter.Stop()

	var out []*models.SubscriptionRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to iterate subscription requests for shop '%s'", shopID)
		}
		var req models.SubscriptionRequest
		if err := doc.DataTo(&req); err != nil {
			log.Printf("Error decoding subscription request (ID: %s): %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		req.ID = doc.Ref.ID
		out = append(out, &req)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
