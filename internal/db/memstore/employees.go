package memstore

import (
	"context"
	"fmt"
	"sort"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

type employeeRepository struct{ s *Store }

func (r *employeeRepository) ListByShop(_ context.Context, shopID string) ([]*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*models.Employee, 0, len(r.s.employees[shopID]))
	for _, emp := range r.s.employees[shopID] {
		emp := emp
		out = append(out, &emp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *employeeRepository) GetByID(_ context.Context, shopID, employeeID string) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp, ok := r.s.employees[shopID][employeeID]
	if !ok {
		return nil, fmt.Errorf("employee '%s': %w", employeeID, db.ErrNotFound)
	}
	return &emp, nil
}

func (r *employeeRepository) FindByAuthUID(_ context.Context, authUID string) (*models.Employee, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, staff := range r.s.employees {
		for _, emp := range staff {
			if emp.AuthUID != "" && emp.AuthUID == authUID {
				return &emp, nil
			}
		}
	}
	return nil, fmt.Errorf("employee with auth UID '%s': %w", authUID, db.ErrNotFound)
}

func (r *employeeRepository) Create(_ context.Context, shopID string, emp *models.Employee) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	emp.ID = newID()
	emp.ShopID = shopID
	if r.s.employees[shopID] == nil {
		r.s.employees[shopID] = make(map[string]models.Employee)
	}
	r.s.employees[shopID][emp.ID] = *emp
	return emp.ID, nil
}

func (r *employeeRepository) Update(_ context.Context, shopID string, emp *models.Employee) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.employees[shopID][emp.ID]
	if !ok {
		return fmt.Errorf("employee '%s': %w", emp.ID, db.ErrNotFound)
	}
	stored.Name = emp.Name
	stored.Role = emp.Role
	stored.Enabled = emp.Enabled
	stored.AuthUID = emp.AuthUID
	stored.UpdatedAt = emp.UpdatedAt
	r.s.employees[shopID][emp.ID] = stored
	return nil
}

func (r *employeeRepository) Delete(_ context.Context, shopID, employeeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employees[shopID][employeeID]; !ok {
		return fmt.Errorf("employee '%s': %w", employeeID, db.ErrNotFound)
	}
	delete(r.s.employees[shopID], employeeID)
	return nil
}
