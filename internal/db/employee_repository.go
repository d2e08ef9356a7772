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

// firestoreEmployeeRepository implements EmployeeRepository using the
// lubricentros/{shopId}/employees sub-collection.
type firestoreEmployeeRepository struct {
	client *firestore.Client
}

// NewFirestoreEmployeeRepository creates a new instance of firestoreEmployeeRepository.
func NewFirestoreEmployeeRepository(client *firestore.Client) EmployeeRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for EmployeeRepository.")
	}
	return &firestoreEmployeeRepository{client: client}
}

func (r *firestoreEmployeeRepository) col(shopID string) *firestore.CollectionRef {
	return r.client.Collection(shopsCollection).Doc(shopID).Collection(employeesCollection)
}

func decodeEmployee(doc *firestore.DocumentSnapshot) (*models.Employee, error) {
	var emp models.Employee
	if err := doc.DataTo(&emp); err != nil {
		return nil, fmt.Errorf("failed to decode employee '%s': %w", doc.Ref.ID, err)
	}
	emp.ID = doc.Ref.ID
	if shopRef := doc.Ref.Parent.Parent; shopRef != nil {
		emp.ShopID = shopRef.ID
	}
	return &emp, nil
}

// ListByShop returns the shop's employees sorted by name.
func (r *firestoreEmployeeRepository) ListByShop(ctx context.Context, shopID string) ([]*models.Employee, error) {
	iter := r.col(shopID).OrderBy("name", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var employees []*models.Employee
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err, "failed to iterate employees for shop '%s'", shopID)
		}
		emp, err := decodeEmployee(doc)
		if err != nil {
			log.Printf("%v. Skipping.", err)
			continue
		}
		employees = append(employees, emp)
	}
	return employees, nil
}

// GetByID retrieves one employee of the shop.
func (r *firestoreEmployeeRepository) GetByID(ctx context.Context, shopID, employeeID string) (*models.Employee, error) {
	docSnap, err := r.col(shopID).Doc(employeeID).Get(ctx)
	if err != nil {
		return nil, classify(err, "failed to get employee '%s'", employeeID)
	}
	return decodeEmployee(docSnap)
}

// FindByAuthUID looks the auth account up across every shop with a collection-group query.
func (r *firestoreEmployeeRepository) FindByAuthUID(ctx context.Context, authUID string) (*models.Employee, error) {
	if authUID == "" {
		return nil, errors.New("authUID cannot be empty for FindByAuthUID operation")
	}
	iter := r.client.CollectionGroup(employeesCollection).Where("authUid", "==", authUID).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("employee with auth UID '%s' not found: %w", authUID, ErrNotFound)
	}
	if err != nil {
		return nil, classify(err, "failed to query employee by auth UID '%s'", authUID)
	}
	return decodeEmployee(doc)
}

// Create stores a new employee with an auto-generated ID.
func (r *firestoreEmployeeRepository) Create(ctx context.Context, shopID string, emp *models.Employee) (string, error) {
	docRef := r.col(shopID).NewDoc()
	emp.ID = docRef.ID
	emp.ShopID = shopID
	if _, err := docRef.Create(ctx, emp); err != nil {
		emp.ID = ""
		return "", classify(err, "failed to create employee for shop '%s'", shopID)
	}
	return docRef.ID, nil
}

// Update writes the mutable employee fields.
func (r *firestoreEmployeeRepository) Update(ctx context.Context, shopID string, emp *models.Employee) error {
	if emp.ID == "" {
		return errors.New("employee ID cannot be empty for Update operation")
	}
	_, err := r.col(shopID).Doc(emp.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: emp.Name},
		{Path: "role", Value: emp.Role},
		{Path: "enabled", Value: emp.Enabled},
		{Path: "authUid", Value: emp.AuthUID},
		{Path: "updatedAt", Value: emp.UpdatedAt},
	})
	if err != nil {
		return classify(err, "failed to update employee '%s'", emp.ID)
	}
	return nil
}

// Delete removes the employee, reporting ErrNotFound when absent.
func (r *firestoreEmployeeRepository) Delete(ctx context.Context, shopID, employeeID string) error {
	if _, err := r.col(shopID).Doc(employeeID).Delete(ctx, firestore.Exists); err != nil {
		return classify(err, "failed to delete employee '%s'", employeeID)
	}
	return nil
}
