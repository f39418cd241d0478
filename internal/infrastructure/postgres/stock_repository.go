package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.StockRepository = (*StockRepo)(nil)
	_ repository.BatchRepository = (*BatchRepo)(nil)
)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func (r *StockRepo) get(ctx context.Context, query, itemID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID).Scan(&s.ItemID, &s.Quantity, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ItemID: itemID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Get obtiene el stock actual de un ítem. Sin fila devuelve cantidad cero.
func (r *StockRepo) Get(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.get(ctx, `SELECT item_id, quantity, updated_at FROM stock WHERE item_id = $1`, itemID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.get(ctx, `SELECT item_id, quantity, updated_at FROM stock WHERE item_id = $1 FOR UPDATE`, itemID)
}

// Upsert inserta o actualiza la cantidad en stock del ítem.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, stock.ItemID, stock.Quantity); err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("upsert stock: %w", domain.ErrInsufficientStock)
		}
		return mapWriteError("upsert stock", err)
	}
	return nil
}

// ListLevels devuelve la vista de stock de los ítems activos con nombres de categoría y área.
func (r *StockRepo) ListLevels(ctx context.Context) ([]*entity.StockLevel, error) {
	query := `
		SELECT i.id, i.sku, i.name, i.base_unit,
			COALESCE(i.category_id::text, ''), COALESCE(c.name, ''),
			COALESCE(i.storage_area_id::text, ''), COALESCE(a.name, ''),
			COALESCE(i.default_supplier_id::text, ''),
			COALESCE(s.quantity, 0), i.min_stock, i.max_stock, i.cost
		FROM items i
		LEFT JOIN stock s ON s.item_id = i.id
		LEFT JOIN categories c ON c.id = i.category_id
		LEFT JOIN storage_areas a ON a.id = i.storage_area_id
		WHERE i.active
		ORDER BY i.name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLevel
	for rows.Next() {
		var l entity.StockLevel
		if err := rows.Scan(
			&l.ItemID, &l.SKU, &l.ItemName, &l.BaseUnit, &l.CategoryID, &l.CategoryName,
			&l.StorageAreaID, &l.StorageAreaName, &l.DefaultSupplierID,
			&l.Quantity, &l.MinStock, &l.MaxStock, &l.Cost,
		); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// BatchRepo lotes por ítem. Con una tx como Querier las lecturas FEFO bloquean las filas.
type BatchRepo struct {
	q    Querier
	inTx bool
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	_, inTx := q.(pgx.Tx)
	return &BatchRepo{q: q, inTx: inTx}
}

const batchColumns = `id, item_id, lot_code, quantity, remaining, unit_cost, expiration_date, received_at,
	source_type, source_id, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.ItemBatch, error) {
	var b entity.ItemBatch
	var sourceID *string
	err := row.Scan(&b.ID, &b.ItemID, &b.LotCode, &b.Quantity, &b.Remaining, &b.UnitCost, &b.ExpirationDate,
		&b.ReceivedAt, &b.SourceType, &sourceID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.SourceID = deref(sourceID)
	return &b, nil
}

func (r *BatchRepo) Create(ctx context.Context, b *entity.ItemBatch) error {
	query := `
		INSERT INTO item_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ItemID, b.LotCode, b.Quantity, b.Remaining, b.UnitCost, b.ExpirationDate, b.ReceivedAt,
		b.SourceType, nullIfEmpty(b.SourceID), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create batch", err)
	}
	return nil
}

func (r *BatchRepo) get(ctx context.Context, query, id string) (*entity.ItemBatch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.ItemBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM item_batches WHERE id = $1`, id)
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.ItemBatch, error) {
	return r.get(ctx, `SELECT `+batchColumns+` FROM item_batches WHERE id = $1 FOR UPDATE`, id)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.ItemBatch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// ListAvailable lotes con saldo en orden FEFO: vencimiento más próximo primero, sin vencimiento al final.
func (r *BatchRepo) ListAvailable(ctx context.Context, itemID string) ([]*entity.ItemBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM item_batches
		WHERE item_id = $1 AND remaining > 0
		ORDER BY expiration_date ASC NULLS LAST, received_at ASC, id ASC`
	if r.inTx {
		query += ` FOR UPDATE`
	}
	return r.list(ctx, query, itemID)
}

func (r *BatchRepo) ListExpiring(ctx context.Context) ([]*entity.ItemBatch, error) {
	query := `
		SELECT ` + batchColumns + ` FROM item_batches
		WHERE expiration_date IS NOT NULL AND remaining > 0
		ORDER BY expiration_date ASC, received_at ASC, id ASC`
	return r.list(ctx, query)
}

// Update persiste saldo, vencimiento y código de lote.
func (r *BatchRepo) Update(ctx context.Context, b *entity.ItemBatch) error {
	query := `
		UPDATE item_batches SET lot_code = $2, remaining = $3, unit_cost = $4, expiration_date = $5, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.LotCode, b.Remaining, b.UnitCost, b.ExpirationDate)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update batch: %w", domain.ErrInsufficientStock)
		}
		return mapWriteError("update batch", err)
	}
	return checkAffected(tag.RowsAffected())
}
