package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.ItemRepository         = (*ItemRepo)(nil)
	_ repository.PresentationRepository = (*PresentationRepo)(nil)
)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, sku, name, description, category_id, item_type_id, storage_area_id, default_supplier_id,
	base_unit, min_stock, max_stock, cost, is_perishable, shelf_life_days, active, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var categoryID, itemTypeID, storageAreaID, supplierID *string
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Description, &categoryID, &itemTypeID, &storageAreaID, &supplierID,
		&it.BaseUnit, &it.MinStock, &it.MaxStock, &it.Cost, &it.IsPerishable, &it.ShelfLifeDays, &it.Active,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.CategoryID = deref(categoryID)
	it.ItemTypeID = deref(itemTypeID)
	it.StorageAreaID = deref(storageAreaID)
	it.DefaultSupplierID = deref(supplierID)
	return &it, nil
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Name, it.Description,
		nullIfEmpty(it.CategoryID), nullIfEmpty(it.ItemTypeID), nullIfEmpty(it.StorageAreaID), nullIfEmpty(it.DefaultSupplierID),
		it.BaseUnit, it.MinStock, it.MaxStock, it.Cost, it.IsPerishable, it.ShelfLifeDays, it.Active,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create item", err)
	}
	return nil
}

func (r *ItemRepo) get(ctx context.Context, where string, arg any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.get(ctx, "id = $1", id)
}

// GetBySKU obtiene un ítem por SKU sin distinguir mayúsculas.
func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	return r.get(ctx, "lower(sku) = lower($1)", sku)
}

// List devuelve la página pedida y el total de ítems que cumplen el filtro.
func (r *ItemRepo) List(ctx context.Context, f entity.ItemFilter) ([]*entity.Item, int, error) {
	var conds []string
	var args []any
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.StorageAreaID != "" {
		args = append(args, f.StorageAreaID)
		conds = append(conds, fmt.Sprintf("storage_area_id = $%d", len(args)))
	}
	if f.ActiveOnly {
		conds = append(conds, "active")
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count items: %w", err)
	}

	query, pageArgs := paginate(`SELECT `+itemColumns+` FROM items`+where+` ORDER BY name`, args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, total, rows.Err()
}

// Update actualiza los datos maestros. El costo promedio solo cambia vía UpdateCost.
func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	query := `
		UPDATE items SET sku = $2, name = $3, description = $4, category_id = $5, item_type_id = $6,
			storage_area_id = $7, default_supplier_id = $8, base_unit = $9, min_stock = $10, max_stock = $11,
			is_perishable = $12, shelf_life_days = $13, active = $14, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		it.ID, it.SKU, it.Name, it.Description,
		nullIfEmpty(it.CategoryID), nullIfEmpty(it.ItemTypeID), nullIfEmpty(it.StorageAreaID), nullIfEmpty(it.DefaultSupplierID),
		it.BaseUnit, it.MinStock, it.MaxStock, it.IsPerishable, it.ShelfLifeDays, it.Active,
	)
	if err != nil {
		return mapWriteError("update item", err)
	}
	return checkAffected(tag.RowsAffected())
}

// UpdateCost actualiza solo el costo promedio ponderado.
func (r *ItemRepo) UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET cost = $2, updated_at = now() WHERE id = $1`, id, cost)
	if err != nil {
		return fmt.Errorf("update item cost: %w", err)
	}
	return checkAffected(tag.RowsAffected())
}

// Delete borra el ítem; stock y presentaciones caen en cascada.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id); err != nil {
		return mapWriteError("delete item", err)
	}
	return nil
}

func (r *ItemRepo) HasHistory(ctx context.Context, id string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM inventory_movements WHERE item_id = $1)
			OR EXISTS (SELECT 1 FROM item_batches WHERE item_id = $1)
			OR EXISTS (SELECT 1 FROM order_details WHERE item_id = $1)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check item history: %w", err)
	}
	return exists, nil
}

// PresentationRepo presentaciones de compra por ítem y proveedor.
type PresentationRepo struct {
	q Querier
}

// NewPresentationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPresentationRepository(q Querier) *PresentationRepo {
	return &PresentationRepo{q: q}
}

const presentationColumns = `id, item_id, supplier_id, name, unit, conversion_factor, price, is_default, active, created_at, updated_at`

func scanPresentation(row pgx.Row) (*entity.Presentation, error) {
	var p entity.Presentation
	var supplierID *string
	err := row.Scan(&p.ID, &p.ItemID, &supplierID, &p.Name, &p.Unit, &p.ConversionFactor, &p.Price,
		&p.IsDefault, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.SupplierID = deref(supplierID)
	return &p, nil
}

func (r *PresentationRepo) Create(ctx context.Context, p *entity.Presentation) error {
	query := `
		INSERT INTO presentations (` + presentationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.ItemID, nullIfEmpty(p.SupplierID), p.Name, p.Unit, p.ConversionFactor, p.Price,
		p.IsDefault, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create presentation", err)
	}
	return nil
}

func (r *PresentationRepo) GetByID(ctx context.Context, id string) (*entity.Presentation, error) {
	p, err := scanPresentation(r.q.QueryRow(ctx, `SELECT `+presentationColumns+` FROM presentations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get presentation: %w", err)
	}
	return p, nil
}

func (r *PresentationRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Presentation, error) {
	query := `SELECT ` + presentationColumns + ` FROM presentations WHERE item_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list presentations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Presentation
	for rows.Next() {
		p, err := scanPresentation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan presentation: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PresentationRepo) Update(ctx context.Context, p *entity.Presentation) error {
	query := `
		UPDATE presentations SET supplier_id = $2, name = $3, unit = $4, conversion_factor = $5, price = $6,
			is_default = $7, active = $8, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, nullIfEmpty(p.SupplierID), p.Name, p.Unit, p.ConversionFactor, p.Price, p.IsDefault, p.Active,
	)
	if err != nil {
		return mapWriteError("update presentation", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *PresentationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM presentations WHERE id = $1`, id); err != nil {
		return mapWriteError("delete presentation", err)
	}
	return nil
}

// ClearDefault quita is_default al resto de presentaciones del mismo (ítem, proveedor).
func (r *PresentationRepo) ClearDefault(ctx context.Context, itemID, supplierID, exceptID string) error {
	query := `
		UPDATE presentations SET is_default = FALSE, updated_at = now()
		WHERE item_id = $1 AND supplier_id IS NOT DISTINCT FROM $2 AND id <> $3 AND is_default`
	if _, err := r.q.Exec(ctx, query, itemID, nullIfEmpty(supplierID), exceptID); err != nil {
		return fmt.Errorf("clear default presentation: %w", err)
	}
	return nil
}

func (r *PresentationRepo) InUse(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM order_details WHERE presentation_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check presentation in use: %w", err)
	}
	return exists, nil
}
