package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lubricentro-backend/internal/models"
)

// firestoreShopRepository implements ShopRepository using Firestore.
type firestoreShopRepository struct {
	client *firestore.Client
}

// NewFirestoreShopRepository creates a ShopRepository backed by the lubricentros collection.
func NewFirestoreShopRepository(client *firestore.Client) ShopRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ShopRepository.")
	}
	return &firestoreShopRepository{client: client}
}

// cuitReservation claims a tax id for exactly one shop.
type cuitReservation struct {
	ShopID    string    `firestore:"shopId"`
	CreatedAt time.Time `firestore:"createdAt"`
}

// cuitRef addresses the reservation document of a tax id. The value is
// path-escaped so a '/' cannot split the document path.
func (r *firestoreShopRepository) cuitRef(cuit string) *firestore.DocumentRef {
	return r.client.Collection(cuitsCollection).Doc(url.PathEscape(cuit))
}

// Create adds the profile using shop.ID (the owner's UID) as the document ID
// and reserves its CUIT in the same transaction. It fails with
// ErrAlreadyExists when either the UID or the CUIT is taken.
func (r *firestoreShopRepository) Create(ctx context.Context, shop *models.ShopProfile) error {
	if shop.ID == "" {
		return errors.New("shop ID cannot be empty for Create operation")
	}
	if shop.CUIT == "" {
		return errors.New("shop CUIT cannot be empty for Create operation")
	}
	shopRef := r.client.Collection(shopsCollection).Doc(shop.ID)
	cuitRef := r.cuitRef(shop.CUIT)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if _, err := tx.Get(cuitRef); err == nil {
			return ErrAlreadyExists
		} else if status.Code(err) != codes.NotFound {
			return err
		}
		if err := tx.Create(shopRef, shop); err != nil {
			return err
		}
		return tx.Create(cuitRef, cuitReservation{ShopID: shop.ID, CreatedAt: shop.CreatedAt})
	})
	if err != nil {
		return classify(err, "failed to create shop '%s'", shop.ID)
	}
	return nil
}

// GetByID retrieves a shop profile by its document ID.
func (r *firestoreShopRepository) GetByID(ctx context.Context, shopID string) (*models.ShopProfile, error) {
	if shopID == "" {
		return nil, errors.New("shopID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(shopsCollection).Doc(shopID).Get(ctx)
	if err != nil {
		return nil, classify(err, "failed to get shop '%s'", shopID)
	}
	var shop models.ShopProfile
	if err := docSnap.DataTo(&shop); err != nil {
		return nil, fmt.Errorf("failed to decode shop data for ID '%s': %w", shopID, err)
	}
	shop.ID = docSnap.Ref.ID
	return &shop, nil
}

// GetByCUIT finds the shop registered under a tax id through its reservation document.
func (r *firestoreShopRepository) GetByCUIT(ctx context.Context, cuit string) (*models.ShopProfile, error) {
	if cuit == "" {
		return nil, fmt.Errorf("shop with empty CUIT: %w", ErrNotFound)
	}
	docSnap, err := r.cuitRef(cuit).Get(ctx)
	if err != nil {
		return nil, classify(err, "failed to look up CUIT '%s'", cuit)
	}
	var res cuitReservation
	if err := docSnap.DataTo(&res); err != nil {
		return nil, fmt.Errorf("failed to decode CUIT reservation '%s': %w", cuit, err)
	}
	return r.GetByID(ctx, res.ShopID)
}

// Update writes the editable profile fields. It fails with ErrNotFound when the
// profile does not exist rather than creating it.
func (r *firestoreShopRepository) Update(ctx context.Context, shop *models.ShopProfile) error {
	if shop.ID == "" {
		return errors.New("shop ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(shopsCollection).Doc(shop.ID).Update(ctx, []firestore.Update{
		{Path: "fantasyName", Value: shop.FantasyName},
		{Path: "responsible", Value: shop.Responsible},
		{Path: "address", Value: shop.Address},
		{Path: "phone", Value: shop.Phone},
		{Path: "email", Value: shop.Email},
		{Path: "logoUrl", Value: shop.LogoURL},
		{Path: "updatedAt", Value: shop.UpdatedAt},
	})
	if err != nil {
		return classify(err, "failed to update shop '%s'", shop.ID)
	}
	return nil
}
