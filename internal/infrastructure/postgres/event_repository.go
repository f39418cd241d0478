package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var (
	_ repository.ProductionEventRepository = (*ProductionEventRepo)(nil)
	_ repository.LossEventRepository       = (*LossEventRepo)(nil)
)

// dateRange arma condiciones sobre la columna date a partir de un rango opcional.
func dateRange(conds []string, args []any, from, to *time.Time) ([]string, []any) {
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	return conds, args
}

func where(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// ProductionEventRepo eventos de producción con los insumos consumidos.
type ProductionEventRepo struct {
	q Querier
}

// NewProductionEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionEventRepository(q Querier) *ProductionEventRepo {
	return &ProductionEventRepo{q: q}
}

const productionColumns = `id, product_item_id, quantity, unit_cost, total_cost, batch_id, date, notes, created_by, created_at`

func scanProduction(row pgx.Row) (*entity.ProductionEvent, error) {
	var e entity.ProductionEvent
	var batchID, createdBy *string
	err := row.Scan(&e.ID, &e.ProductItemID, &e.Quantity, &e.UnitCost, &e.TotalCost, &batchID, &e.Date,
		&e.Notes, &createdBy, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.BatchID = deref(batchID)
	e.CreatedBy = deref(createdBy)
	return &e, nil
}

// Create inserta el evento y sus detalles.
func (r *ProductionEventRepo) Create(ctx context.Context, e *entity.ProductionEvent) error {
	query := `
		INSERT INTO production_events (` + productionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductItemID, e.Quantity, e.UnitCost, e.TotalCost, nullIfEmpty(e.BatchID), e.Date, e.Notes,
		nullIfEmpty(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		return mapWriteError("create production event", err)
	}
	detailQuery := `
		INSERT INTO production_event_details (id, event_id, item_id, quantity, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, d := range e.Details {
		d.EventID = e.ID
		if _, err := r.q.Exec(ctx, detailQuery, d.ID, d.EventID, d.ItemID, d.Quantity, d.UnitCost, d.TotalCost); err != nil {
			return mapWriteError("create production detail", err)
		}
	}
	return nil
}

// GetByID devuelve el evento con sus detalles.
func (r *ProductionEventRepo) GetByID(ctx context.Context, id string) (*entity.ProductionEvent, error) {
	e, err := scanProduction(r.q.QueryRow(ctx, `SELECT `+productionColumns+` FROM production_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production event: %w", err)
	}
	query := `
		SELECT id, event_id, item_id, quantity, unit_cost, total_cost
		FROM production_event_details WHERE event_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list production details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.ProductionEventDetail
		if err := rows.Scan(&d.ID, &d.EventID, &d.ItemID, &d.Quantity, &d.UnitCost, &d.TotalCost); err != nil {
			return nil, fmt.Errorf("scan production detail: %w", err)
		}
		e.Details = append(e.Details, &d)
	}
	return e, rows.Err()
}

// List cabeceras de producción en el rango, más recientes primero.
func (r *ProductionEventRepo) List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.ProductionEvent, error) {
	conds, args := dateRange(nil, nil, from, to)
	query, args := paginate(`SELECT `+productionColumns+` FROM production_events`+where(conds)+` ORDER BY date DESC`,
		args, limit, offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production events: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionEvent
	for rows.Next() {
		e, err := scanProduction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan production event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// LossEventRepo mermas con su detalle por ítem y lote.
type LossEventRepo struct {
	q Querier
}

// NewLossEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLossEventRepository(q Querier) *LossEventRepo {
	return &LossEventRepo{q: q}
}

const lossColumns = `id, reason, date, notes, total_cost, created_by, created_at`

func scanLoss(row pgx.Row) (*entity.LossEvent, error) {
	var e entity.LossEvent
	var createdBy *string
	if err := row.Scan(&e.ID, &e.Reason, &e.Date, &e.Notes, &e.TotalCost, &createdBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.CreatedBy = deref(createdBy)
	return &e, nil
}

func (r *LossEventRepo) Create(ctx context.Context, e *entity.LossEvent) error {
	query := `INSERT INTO loss_events (` + lossColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, e.ID, e.Reason, e.Date, e.Notes, e.TotalCost, nullIfEmpty(e.CreatedBy), e.CreatedAt)
	if err != nil {
		return mapWriteError("create loss event", err)
	}
	detailQuery := `
		INSERT INTO loss_event_details (id, event_id, item_id, batch_id, quantity, unit_cost, total_cost, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, d := range e.Details {
		d.EventID = e.ID
		_, err := r.q.Exec(ctx, detailQuery,
			d.ID, d.EventID, d.ItemID, nullIfEmpty(d.BatchID), d.Quantity, d.UnitCost, d.TotalCost, d.Notes,
		)
		if err != nil {
			return mapWriteError("create loss detail", err)
		}
	}
	return nil
}

func (r *LossEventRepo) GetByID(ctx context.Context, id string) (*entity.LossEvent, error) {
	e, err := scanLoss(r.q.QueryRow(ctx, `SELECT `+lossColumns+` FROM loss_events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get loss event: %w", err)
	}
	query := `
		SELECT id, event_id, item_id, batch_id, quantity, unit_cost, total_cost, notes
		FROM loss_event_details WHERE event_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list loss details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.LossEventDetail
		var batchID *string
		if err := rows.Scan(&d.ID, &d.EventID, &d.ItemID, &batchID, &d.Quantity, &d.UnitCost, &d.TotalCost, &d.Notes); err != nil {
			return nil, fmt.Errorf("scan loss detail: %w", err)
		}
		d.BatchID = deref(batchID)
		e.Details = append(e.Details, &d)
	}
	return e, rows.Err()
}

func (r *LossEventRepo) List(ctx context.Context, f entity.LossFilter) ([]*entity.LossEvent, error) {
	conds, args := dateRange(nil, nil, f.From, f.To)
	if f.Reason != "" {
		args = append(args, f.Reason)
		conds = append(conds, fmt.Sprintf("reason = $%d", len(args)))
	}
	query, args := paginate(`SELECT `+lossColumns+` FROM loss_events`+where(conds)+` ORDER BY date DESC`,
		args, f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list loss events: %w", err)
	}
	defer rows.Close()
	var list []*entity.LossEvent
	for rows.Next() {
		e, err := scanLoss(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loss event: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
