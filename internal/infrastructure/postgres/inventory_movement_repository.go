package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

const movementColumns = `id, transaction_id, item_id, batch_id, type, quantity, unit_cost, total_cost,
	reason, reference_type, reference_id, date, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TransactionID, m.ItemID, nullIfEmpty(m.BatchID), m.Type, m.Quantity, m.UnitCost, m.TotalCost,
		m.Reason, m.ReferenceType, nullIfEmpty(m.ReferenceID), m.Date, m.CreatedAt, nullIfEmpty(m.CreatedBy),
	)
	if err != nil {
		return mapWriteError("create inventory movement", err)
	}
	return nil
}

// List movimientos filtrados, más recientes primero.
func (r *InventoryMovementRepo) List(ctx context.Context, f entity.MovementFilter) ([]*entity.InventoryMovement, error) {
	var conds []string
	var args []any
	if f.ItemID != "" {
		args = append(args, f.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM inventory_movements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query, args = paginate(query+` ORDER BY date DESC, created_at DESC`, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		var batchID, referenceID, createdBy *string
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &batchID, &m.Type, &m.Quantity, &m.UnitCost,
			&m.TotalCost, &m.Reason, &m.ReferenceType, &referenceID, &m.Date, &m.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.BatchID = deref(batchID)
		m.ReferenceID = deref(referenceID)
		m.CreatedBy = deref(createdBy)
		list = append(list, &m)
	}
	return list, rows.Err()
}
