package memstore

import (
	"context"
	"fmt"
	"sort"

	"lubricentro-backend/internal/db"
	"lubricentro-backend/internal/models"
)

type oilChangeRepository struct{ s *Store }

func (r *oilChangeRepository) List(_ context.Context, shopID string) ([]*models.OilChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := make([]oilChangeRow, 0, len(r.s.oilChanges[shopID]))
	for _, row := range r.s.oilChanges[shopID] {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].rec.CreatedAt.Equal(rows[j].rec.CreatedAt) {
			return rows[i].rec.CreatedAt.After(rows[j].rec.CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*models.OilChange, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneOilChange(row.rec))
	}
	return out, nil
}

func (r *oilChangeRepository) GetByID(_ context.Context, shopID, oilChangeID string) (*models.OilChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.oilChanges[shopID][oilChangeID]
	if !ok {
		return nil, fmt.Errorf("oil change '%s': %w", oilChangeID, db.ErrNotFound)
	}
	return cloneOilChange(row.rec), nil
}

func (r *oilChangeRepository) Create(_ context.Context, shopID string, rec *models.OilChange) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec.ID = newID()
	rec.ShopID = shopID
	if r.s.oilChanges[shopID] == nil {
		r.s.oilChanges[shopID] = make(map[string]oilChangeRow)
	}
	r.s.seq++
	r.s.oilChanges[shopID][rec.ID] = oilChangeRow{rec: *cloneOilChange(*rec), seq: r.s.seq}
	return rec.ID, nil
}

func (r *oilChangeRepository) Update(_ context.Context, shopID string, rec *models.OilChange) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.oilChanges[shopID][rec.ID]
	if !ok {
		return fmt.Errorf("oil change '%s': %w", rec.ID, db.ErrNotFound)
	}
	row.rec = *cloneOilChange(*rec)
	row.rec.ShopID = shopID
	r.s.oilChanges[shopID][rec.ID] = row
	return nil
}

func (r *oilChangeRepository) Delete(_ context.Context, shopID, oilChangeID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.oilChanges[shopID][oilChangeID]; !ok {
		return fmt.Errorf("oil change '%s': %w", oilChangeID, db.ErrNotFound)
	}
	delete(r.s.oilChanges[shopID], oilChangeID)
	return nil
}
