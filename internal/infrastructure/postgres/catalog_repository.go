package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository    = (*CategoryRepo)(nil)
	_ repository.ItemTypeRepository    = (*ItemTypeRepo)(nil)
	_ repository.StorageAreaRepository = (*StorageAreaRepo)(nil)
)

// inUse consulta si algún ítem apunta al catálogo por la columna indicada.
func inUse(ctx context.Context, q Querier, column, id string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM items WHERE ` + column + ` = $1)`
	if err := q.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s in use: %w", column, err)
	}
	return exists, nil
}

func checkAffected(tagRows int64) error {
	if tagRows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CategoryRepo categorías sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt); err != nil {
		return mapWriteError("create category", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM categories WHERE id = $1`
	var c entity.Category
	err := r.q.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `UPDATE categories SET name = $2, description = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Description)
	if err != nil {
		return mapWriteError("update category", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return mapWriteError("delete category", err)
	}
	return nil
}

func (r *CategoryRepo) InUse(ctx context.Context, id string) (bool, error) {
	return inUse(ctx, r.q, "category_id", id)
}

// ItemTypeRepo tipos de ítem (insumo, producto terminado, empaque...).
type ItemTypeRepo struct {
	q Querier
}

// NewItemTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemTypeRepository(q Querier) *ItemTypeRepo {
	return &ItemTypeRepo{q: q}
}

func (r *ItemTypeRepo) Create(ctx context.Context, t *entity.ItemType) error {
	query := `
		INSERT INTO item_types (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Description, t.CreatedAt, t.UpdatedAt); err != nil {
		return mapWriteError("create item type", err)
	}
	return nil
}

func (r *ItemTypeRepo) GetByID(ctx context.Context, id string) (*entity.ItemType, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM item_types WHERE id = $1`
	var t entity.ItemType
	err := r.q.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item type: %w", err)
	}
	return &t, nil
}

func (r *ItemTypeRepo) List(ctx context.Context) ([]*entity.ItemType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM item_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list item types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemType
	for rows.Next() {
		var t entity.ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

func (r *ItemTypeRepo) Update(ctx context.Context, t *entity.ItemType) error {
	query := `UPDATE item_types SET name = $2, description = $3, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Name, t.Description)
	if err != nil {
		return mapWriteError("update item type", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *ItemTypeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM item_types WHERE id = $1`, id); err != nil {
		return mapWriteError("delete item type", err)
	}
	return nil
}

func (r *ItemTypeRepo) InUse(ctx context.Context, id string) (bool, error) {
	return inUse(ctx, r.q, "item_type_id", id)
}

// StorageAreaRepo áreas de almacenamiento (bodega seca, cuarto frío, congelador).
type StorageAreaRepo struct {
	q Querier
}

// NewStorageAreaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStorageAreaRepository(q Querier) *StorageAreaRepo {
	return &StorageAreaRepo{q: q}
}

const storageAreaColumns = `id, name, description, temperature, created_at, updated_at`

func (r *StorageAreaRepo) Create(ctx context.Context, a *entity.StorageArea) error {
	query := `INSERT INTO storage_areas (` + storageAreaColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.Name, a.Description, a.Temperature, a.CreatedAt, a.UpdatedAt); err != nil {
		return mapWriteError("create storage area", err)
	}
	return nil
}

func (r *StorageAreaRepo) GetByID(ctx context.Context, id string) (*entity.StorageArea, error) {
	var a entity.StorageArea
	err := r.q.QueryRow(ctx, `SELECT `+storageAreaColumns+` FROM storage_areas WHERE id = $1`, id).Scan(
		&a.ID, &a.Name, &a.Description, &a.Temperature, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get storage area: %w", err)
	}
	return &a, nil
}

func (r *StorageAreaRepo) List(ctx context.Context) ([]*entity.StorageArea, error) {
	rows, err := r.q.Query(ctx, `SELECT `+storageAreaColumns+` FROM storage_areas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list storage areas: %w", err)
	}
	defer rows.Close()
	var list []*entity.StorageArea
	for rows.Next() {
		var a entity.StorageArea
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Temperature, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan storage area: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *StorageAreaRepo) Update(ctx context.Context, a *entity.StorageArea) error {
	query := `
		UPDATE storage_areas SET name = $2, description = $3, temperature = $4, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, a.ID, a.Name, a.Description, a.Temperature)
	if err != nil {
		return mapWriteError("update storage area", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *StorageAreaRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM storage_areas WHERE id = $1`, id); err != nil {
		return mapWriteError("delete storage area", err)
	}
	return nil
}

func (r *StorageAreaRepo) InUse(ctx context.Context, id string) (bool, error) {
	return inUse(ctx, r.q, "storage_area_id", id)
}
