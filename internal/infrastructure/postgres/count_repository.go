package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.InventoryCountRepository  = (*InventoryCountRepo)(nil)
	_ repository.ExpirationAlertRepository = (*ExpirationAlertRepo)(nil)
)

// InventoryCountRepo conteos físicos con una línea por ítem.
type InventoryCountRepo struct {
	q Querier
}

// NewInventoryCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryCountRepository(q Querier) *InventoryCountRepo {
	return &InventoryCountRepo{q: q}
}

const countColumns = `id, storage_area_id, status, notes, created_by, created_at, closed_at`

func scanCount(row pgx.Row) (*entity.InventoryCount, error) {
	var c entity.InventoryCount
	var areaID, createdBy *string
	if err := row.Scan(&c.ID, &areaID, &c.Status, &c.Notes, &createdBy, &c.CreatedAt, &c.ClosedAt); err != nil {
		return nil, err
	}
	c.StorageAreaID = deref(areaID)
	c.CreatedBy = deref(createdBy)
	return &c, nil
}

// Create inserta el conteo con la foto de cantidades esperadas.
func (r *InventoryCountRepo) Create(ctx context.Context, c *entity.InventoryCount) error {
	query := `INSERT INTO inventory_counts (` + countColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		c.ID, nullIfEmpty(c.StorageAreaID), c.Status, c.Notes, nullIfEmpty(c.CreatedBy), c.CreatedAt, c.ClosedAt,
	)
	if err != nil {
		return mapWriteError("create inventory count", err)
	}
	detailQuery := `
		INSERT INTO inventory_count_details (id, count_id, item_id, expected_quantity, counted_quantity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, d := range c.Details {
		d.CountID = c.ID
		_, err := r.q.Exec(ctx, detailQuery, d.ID, d.CountID, d.ItemID, d.ExpectedQuantity, d.CountedQuantity, d.UpdatedAt)
		if err != nil {
			return mapWriteError("create count detail", err)
		}
	}
	return nil
}

func (r *InventoryCountRepo) get(ctx context.Context, query, id string) (*entity.InventoryCount, error) {
	c, err := scanCount(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory count: %w", err)
	}
	detailQuery := `
		SELECT id, count_id, item_id, expected_quantity, counted_quantity, updated_at
		FROM inventory_count_details WHERE count_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, detailQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list count details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.CountDetail
		if err := rows.Scan(&d.ID, &d.CountID, &d.ItemID, &d.ExpectedQuantity, &d.CountedQuantity, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan count detail: %w", err)
		}
		c.Details = append(c.Details, &d)
	}
	return c, rows.Err()
}

func (r *InventoryCountRepo) GetByID(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1`, id)
}

func (r *InventoryCountRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error) {
	return r.get(ctx, `SELECT `+countColumns+` FROM inventory_counts WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryCountRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.InventoryCount, error) {
	query := `SELECT ` + countColumns + ` FROM inventory_counts`
	var args []any
	if status != "" {
		args = append(args, status)
		query += ` WHERE status = $1`
	}
	query, args = paginate(query+` ORDER BY created_at DESC`, args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory counts: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryCount
	for rows.Next() {
		c, err := scanCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory count: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update persiste estado, notas y cierre de la cabecera.
func (r *InventoryCountRepo) Update(ctx context.Context, c *entity.InventoryCount) error {
	query := `UPDATE inventory_counts SET status = $2, notes = $3, closed_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, c.ID, c.Status, c.Notes, c.ClosedAt)
	if err != nil {
		return mapWriteError("update inventory count", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *InventoryCountRepo) UpdateDetail(ctx context.Context, d *entity.CountDetail) error {
	query := `
		UPDATE inventory_count_details SET expected_quantity = $2, counted_quantity = $3, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.ExpectedQuantity, d.CountedQuantity)
	if err != nil {
		return mapWriteError("update count detail", err)
	}
	return checkAffected(tag.RowsAffected())
}

// ExpirationAlertRepo alertas de vencimiento; a lo sumo una pendiente por lote.
type ExpirationAlertRepo struct {
	q Querier
}

// NewExpirationAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewExpirationAlertRepository(q Querier) *ExpirationAlertRepo {
	return &ExpirationAlertRepo{q: q}
}

const alertColumns = `id, batch_id, item_id, expiration_date, severity, status, resolution, notes,
	loss_event_id, resolved_by, resolved_at, created_at, updated_at`

func scanAlert(row pgx.Row) (*entity.ExpirationAlert, error) {
	var a entity.ExpirationAlert
	var lossID, resolvedBy *string
	err := row.Scan(&a.ID, &a.BatchID, &a.ItemID, &a.ExpirationDate, &a.Severity, &a.Status, &a.Resolution,
		&a.Notes, &lossID, &resolvedBy, &a.ResolvedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.LossEventID = deref(lossID)
	a.ResolvedBy = deref(resolvedBy)
	return &a, nil
}

func (r *ExpirationAlertRepo) Create(ctx context.Context, a *entity.ExpirationAlert) error {
	query := `
		INSERT INTO expiration_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BatchID, a.ItemID, a.ExpirationDate, a.Severity, a.Status, a.Resolution, a.Notes,
		nullIfEmpty(a.LossEventID), nullIfEmpty(a.ResolvedBy), a.ResolvedAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create expiration alert", err)
	}
	return nil
}

func (r *ExpirationAlertRepo) get(ctx context.Context, query, arg string) (*entity.ExpirationAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expiration alert: %w", err)
	}
	return a, nil
}

func (r *ExpirationAlertRepo) GetByID(ctx context.Context, id string) (*entity.ExpirationAlert, error) {
	return r.get(ctx, `SELECT `+alertColumns+` FROM expiration_alerts WHERE id = $1`, id)
}

func (r *ExpirationAlertRepo) GetForUpdate(ctx context.Context, id string) (*entity.ExpirationAlert, error) {
	return r.get(ctx, `SELECT `+alertColumns+` FROM expiration_alerts WHERE id = $1 FOR UPDATE`, id)
}

func (r *ExpirationAlertRepo) GetPendingByBatch(ctx context.Context, batchID string) (*entity.ExpirationAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM expiration_alerts WHERE batch_id = $1 AND status = 'pending'`
	return r.get(ctx, query, batchID)
}

// List alertas filtradas, vencimiento más próximo primero.
func (r *ExpirationAlertRepo) List(ctx context.Context, f entity.AlertFilter) ([]*entity.ExpirationAlert, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Severity != "" {
		args = append(args, f.Severity)
		conds = append(conds, fmt.Sprintf("severity = $%d", len(args)))
	}
	query, args := paginate(`SELECT `+alertColumns+` FROM expiration_alerts`+where(conds)+` ORDER BY expiration_date, id`,
		args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expiration alerts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ExpirationAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expiration alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ExpirationAlertRepo) Update(ctx context.Context, a *entity.ExpirationAlert) error {
	query := `
		UPDATE expiration_alerts SET expiration_date = $2, severity = $3, status = $4, resolution = $5, notes = $6,
			loss_event_id = $7, resolved_by = $8, resolved_at = $9, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.ExpirationDate, a.Severity, a.Status, a.Resolution, a.Notes,
		nullIfEmpty(a.LossEventID), nullIfEmpty(a.ResolvedBy), a.ResolvedAt,
	)
	if err != nil {
		return mapWriteError("update expiration alert", err)
	}
	return checkAffected(tag.RowsAffected())
}
