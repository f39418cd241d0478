package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockRepository             = (*StockRepo)(nil)
	_ repository.BatchRepository             = (*BatchRepo)(nil)
	_ repository.InventoryMovementRepository = (*MovementRepo)(nil)
)

// StockRepo stock en memoria.
type StockRepo struct{ s *Store }

func (r *StockRepo) Get(_ context.Context, itemID string) (*entity.Stock, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if st, ok := r.s.d.stock[itemID]; ok {
		return cp(st), nil
	}
	return &entity.Stock{ItemID: itemID, Quantity: decimal.Zero}, nil
}

// GetForUpdate equivale a Get: las transacciones ya están serializadas por el Store.
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.Get(ctx, itemID)
}

func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if stock.Quantity.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	r.s.d.stock[stock.ItemID] = cp(stock)
	return nil
}

func (r *StockRepo) ListLevels(_ context.Context) ([]*entity.StockLevel, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockLevel, 0, len(r.s.d.items))
	for _, it := range r.s.d.items {
		if !it.Active {
			continue
		}
		lvl := &entity.StockLevel{
			ItemID:            it.ID,
			SKU:               it.SKU,
			ItemName:          it.Name,
			BaseUnit:          it.BaseUnit,
			CategoryID:        it.CategoryID,
			StorageAreaID:     it.StorageAreaID,
			DefaultSupplierID: it.DefaultSupplierID,
			Quantity:          decimal.Zero,
			MinStock:          it.MinStock,
			MaxStock:          it.MaxStock,
			Cost:              it.Cost,
		}
		if c, ok := r.s.d.categories[it.CategoryID]; ok {
			lvl.CategoryName = c.Name
		}
		if a, ok := r.s.d.storageAreas[it.StorageAreaID]; ok {
			lvl.StorageAreaName = a.Name
		}
		if st, ok := r.s.d.stock[it.ID]; ok {
			lvl.Quantity = st.Quantity
		}
		out = append(out, lvl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

// BatchRepo lotes en memoria.
type BatchRepo struct{ s *Store }

func (r *BatchRepo) Create(_ context.Context, b *entity.ItemBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.batches[b.ID] = cp(b)
	return nil
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.ItemBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return cp(r.s.d.batches[id]), nil
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.ItemBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *BatchRepo) ListAvailable(_ context.Context, itemID string) ([]*entity.ItemBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ItemBatch
	for _, b := range r.s.d.batches {
		if b.ItemID == itemID && b.Remaining.GreaterThan(decimal.Zero) {
			out = append(out, cp(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	inventory.SortFEFO(out)
	return out, nil
}

func (r *BatchRepo) ListExpiring(_ context.Context) ([]*entity.ItemBatch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.ItemBatch
	for _, b := range r.s.d.batches {
		if b.ExpirationDate != nil && b.Remaining.GreaterThan(decimal.Zero) {
			out = append(out, cp(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	inventory.SortFEFO(out)
	return out, nil
}

func (r *BatchRepo) Update(_ context.Context, b *entity.ItemBatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.d.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	if b.Remaining.LessThan(decimal.Zero) {
		return domain.ErrInsufficientStock
	}
	r.s.d.batches[b.ID] = cp(b)
	return nil
}

// MovementRepo movimientos en memoria (solo inserción).
type MovementRepo struct{ s *Store }

func (r *MovementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.movements = append(r.s.d.movements, cp(m))
	return nil
}

func (r *MovementRepo) List(_ context.Context, f entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InventoryMovement
	for i := len(r.s.d.movements) - 1; i >= 0; i-- {
		m := r.s.d.movements[i]
		if f.ItemID != "" && m.ItemID != f.ItemID {
			continue
		}
		if f.Type != "" && m.Type != f.Type {
			continue
		}
		if f.From != nil && m.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && m.Date.After(*f.To) {
			continue
		}
		out = append(out, cp(m))
	}
	return page(out, f.Limit, f.Offset), nil
}
