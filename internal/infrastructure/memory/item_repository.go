package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.ItemRepository         = (*ItemRepo)(nil)
	_ repository.PresentationRepository = (*PresentationRepo)(nil)
)

// ItemRepo ítems en memoria.
type ItemRepo struct{ s *Store }

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.items {
		if strings.EqualFold(e.SKU, item.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.items[item.ID] = cp(item)
	return nil
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.items[id]), nil
}

func (r *ItemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.d.items {
		if strings.EqualFold(e.SKU, sku) {
			return cp(e), nil
		}
	}
	return nil, nil
}

func (r *ItemRepo) List(_ context.Context, f entity.ItemFilter) ([]*entity.Item, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	search := strings.ToLower(f.Search)
	var out []*entity.Item
	for _, it := range r.s.d.items {
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.StorageAreaID != "" && it.StorageAreaID != f.StorageAreaID {
			continue
		}
		if f.ActiveOnly && !it.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.SKU), search) {
			continue
		}
		out = append(out, cp(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.d.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.items {
		if e.ID != item.ID && strings.EqualFold(e.SKU, item.SKU) {
			return domain.ErrDuplicate
		}
	}
	c := cp(item)
	// El costo solo cambia vía UpdateCost.
	c.Cost = cur.Cost
	r.s.d.items[item.ID] = c
	return nil
}

func (r *ItemRepo) UpdateCost(_ context.Context, id string, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.d.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	it.Cost = cost
	it.UpdatedAt = time.Now()
	return nil
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.items, id)
	delete(r.s.d.stock, id)
	for pid, p := range r.s.d.presentations {
		if p.ItemID == id {
			delete(r.s.d.presentations, pid)
		}
	}
	return nil
}

func (r *ItemRepo) HasHistory(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, m := range r.s.d.movements {
		if m.ItemID == id {
			return true, nil
		}
	}
	for _, b := range r.s.d.batches {
		if b.ItemID == id {
			return true, nil
		}
	}
	for _, d := range r.s.d.orderDetails {
		if d.ItemID == id {
			return true, nil
		}
	}
	return false, nil
}

// PresentationRepo presentaciones en memoria.
type PresentationRepo struct{ s *Store }

func (r *PresentationRepo) Create(_ context.Context, p *entity.Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.presentations[p.ID] = cp(p)
	return nil
}

func (r *PresentationRepo) GetByID(_ context.Context, id string) (*entity.Presentation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.presentations[id]), nil
}

func (r *PresentationRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Presentation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Presentation
	for _, p := range r.s.d.presentations {
		if p.ItemID == itemID {
			out = append(out, cp(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PresentationRepo) Update(_ context.Context, p *entity.Presentation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.presentations[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.presentations[p.ID] = cp(p)
	return nil
}

func (r *PresentationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.presentations, id)
	return nil
}

func (r *PresentationRepo) ClearDefault(_ context.Context, itemID, supplierID, exceptID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.d.presentations {
		if p.ItemID == itemID && p.SupplierID == supplierID && p.ID != exceptID {
			p.IsDefault = false
		}
	}
	return nil
}

func (r *PresentationRepo) InUse(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, d := range r.s.d.orderDetails {
		if d.PresentationID == id {
			return true, nil
		}
	}
	return false, nil
}
