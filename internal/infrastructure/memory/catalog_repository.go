package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.ItemTypeRepository    = (*ItemTypeRepo)(nil)
	_ repository.StorageAreaRepository = (*StorageAreaRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.categories {
		if strings.EqualFold(e.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.categories[c.ID] = cp(c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.categories[id]), nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Category, 0, len(r.s.d.categories))
	for _, c := range r.s.d.categories {
		out = append(out, cp(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.categories {
		if e.ID != c.ID && strings.EqualFold(e.Name, c.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.categories[c.ID] = cp(c)
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.categories, id)
	return nil
}

func (r *CategoryRepo) InUse(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.d.items {
		if it.CategoryID == id {
			return true, nil
		}
	}
	return false, nil
}

// ItemTypeRepo tipos de ítem en memoria.
type ItemTypeRepo struct{ s *Store }

func (r *ItemTypeRepo) Create(_ context.Context, t *entity.ItemType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.itemTypes {
		if strings.EqualFold(e.Name, t.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.itemTypes[t.ID] = cp(t)
	return nil
}

func (r *ItemTypeRepo) GetByID(_ context.Context, id string) (*entity.ItemType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.itemTypes[id]), nil
}

func (r *ItemTypeRepo) List(_ context.Context) ([]*entity.ItemType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.ItemType, 0, len(r.s.d.itemTypes))
	for _, t := range r.s.d.itemTypes {
		out = append(out, cp(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ItemTypeRepo) Update(_ context.Context, t *entity.ItemType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.itemTypes[t.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.itemTypes {
		if e.ID != t.ID && strings.EqualFold(e.Name, t.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.itemTypes[t.ID] = cp(t)
	return nil
}

func (r *ItemTypeRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.itemTypes, id)
	return nil
}

func (r *ItemTypeRepo) InUse(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.d.items {
		if it.ItemTypeID == id {
			return true, nil
		}
	}
	return false, nil
}

// StorageAreaRepo áreas de almacenamiento en memoria.
type StorageAreaRepo struct{ s *Store }

func (r *StorageAreaRepo) Create(_ context.Context, a *entity.StorageArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.d.storageAreas {
		if strings.EqualFold(e.Name, a.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.storageAreas[a.ID] = cp(a)
	return nil
}

func (r *StorageAreaRepo) GetByID(_ context.Context, id string) (*entity.StorageArea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.storageAreas[id]), nil
}

func (r *StorageAreaRepo) List(_ context.Context) ([]*entity.StorageArea, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StorageArea, 0, len(r.s.d.storageAreas))
	for _, a := range r.s.d.storageAreas {
		out = append(out, cp(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *StorageAreaRepo) Update(_ context.Context, a *entity.StorageArea) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.storageAreas[a.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, e := range r.s.d.storageAreas {
		if e.ID != a.ID && strings.EqualFold(e.Name, a.Name) {
			return domain.ErrDuplicate
		}
	}
	r.s.d.storageAreas[a.ID] = cp(a)
	return nil
}

func (r *StorageAreaRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.storageAreas, id)
	return nil
}

func (r *StorageAreaRepo) InUse(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, it := range r.s.d.items {
		if it.StorageAreaID == id {
			return true, nil
		}
	}
	for _, c := range r.s.d.counts {
		if c.StorageAreaID == id {
			return true, nil
		}
	}
	return false, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.suppliers[s.ID] = cp(s)
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.suppliers[id]), nil
}

func (r *SupplierRepo) List(_ context.Context, activeOnly bool) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Supplier, 0, len(r.s.d.suppliers))
	for _, s := range r.s.d.suppliers {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, cp(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.d.suppliers[s.ID] = cp(s)
	return nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.d.suppliers, id)
	return nil
}

func (r *SupplierRepo) HasReferences(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, o := range r.s.d.orders {
		if o.SupplierID == id {
			return true, nil
		}
	}
	for _, p := range r.s.d.presentations {
		if p.SupplierID == id {
			return true, nil
		}
	}
	for _, it := range r.s.d.items {
		if it.DefaultSupplierID == id {
			return true, nil
		}
	}
	return false, nil
}
