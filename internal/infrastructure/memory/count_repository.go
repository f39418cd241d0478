package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.InventoryCountRepository  = (*CountRepo)(nil)
	_ repository.ExpirationAlertRepository = (*AlertRepo)(nil)
)

// CountRepo conteos físicos en memoria.
type CountRepo struct{ s *Store }

func (r *CountRepo) Create(_ context.Context, c *entity.InventoryCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	h := cp(c)
	h.Details = nil
	r.s.d.counts[c.ID] = h
	for _, d := range c.Details {
		d.CountID = c.ID
		r.s.d.countDetails[d.ID] = cp(d)
	}
	return nil
}

func (r *CountRepo) GetByID(_ context.Context, id string) (*entity.InventoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	h, ok := r.s.d.counts[id]
	if !ok {
		return nil, nil
	}
	c := cp(h)
	c.Details = nil
	for _, d := range r.s.d.countDetails {
		if d.CountID == id {
			c.Details = append(c.Details, cp(d))
		}
	}
	sort.Slice(c.Details, func(i, j int) bool { return c.Details[i].ID < c.Details[j].ID })
	return c, nil
}

func (r *CountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.GetByID(ctx, id)
}

func (r *CountRepo) List(_ context.Context, status string, limit, offset int) ([]*entity.InventoryCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryCount
	for _, h := range r.s.d.counts {
		if status != "" && h.Status != status {
			continue
		}
		c := cp(h)
		c.Details = nil
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *CountRepo) Update(_ context.Context, c *entity.InventoryCount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.counts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	h := cp(c)
	h.Details = nil
	r.s.d.counts[c.ID] = h
	return nil
}

func (r *CountRepo) UpdateDetail(_ context.Context, d *entity.CountDetail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.countDetails[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.countDetails[d.ID] = cp(d)
	return nil
}

// AlertRepo alertas de vencimiento en memoria.
type AlertRepo struct{ s *Store }

func (r *AlertRepo) Create(_ context.Context, a *entity.ExpirationAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a.Status == entity.AlertStatusPending {
		for _, e := range r.s.d.alerts {
			if e.BatchID == a.BatchID && e.Status == entity.AlertStatusPending {
				return domain.ErrDuplicate
			}
		}
	}
	r.s.d.alerts[a.ID] = cp(a)
	return nil
}

func (r *AlertRepo) GetByID(_ context.Context, id string) (*entity.ExpirationAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.alerts[id]), nil
}

func (r *AlertRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExpirationAlert, error) {
	return r.GetByID(ctx, id)
}

func (r *AlertRepo) GetPendingByBatch(_ context.Context, batchID string) (*entity.ExpirationAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.d.alerts {
		if a.BatchID == batchID && a.Status == entity.AlertStatusPending {
			return cp(a), nil
		}
	}
	return nil, nil
}

func (r *AlertRepo) List(_ context.Context, f entity.AlertFilter) ([]*entity.ExpirationAlert, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ExpirationAlert
	for _, a := range r.s.d.alerts {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Severity != "" && a.Severity != f.Severity {
			continue
		}
		out = append(out, cp(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(out[j].ExpirationDate) {
			return out[i].ExpirationDate.Before(out[j].ExpirationDate)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *AlertRepo) Update(_ context.Context, a *entity.ExpirationAlert) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.alerts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.alerts[a.ID] = cp(a)
	return nil
}
