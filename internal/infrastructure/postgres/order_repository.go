package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo pedidos a proveedor; la cabecera y las líneas viven en tablas separadas.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, supplier_id, status, is_suggested, order_date, expected_date, notes, total,
	created_by, sent_at, received_at, created_at, updated_at`

const orderDetailColumns = `id, order_id, item_id, presentation_id, quantity, unit_price, conversion_factor,
	received_quantity, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var createdBy *string
	err := row.Scan(&o.ID, &o.SupplierID, &o.Status, &o.IsSuggested, &o.OrderDate, &o.ExpectedDate, &o.Notes,
		&o.Total, &createdBy, &o.SentAt, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.CreatedBy = deref(createdBy)
	return &o, nil
}

// Create inserta la cabecera y sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.SupplierID, o.Status, o.IsSuggested, o.OrderDate, o.ExpectedDate, o.Notes, o.Total,
		nullIfEmpty(o.CreatedBy), o.SentAt, o.ReceivedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("create order", err)
	}
	for _, d := range o.Details {
		d.OrderID = o.ID
		if err := r.AddDetail(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) loadDetails(ctx context.Context, o *entity.Order) error {
	query := `SELECT ` + orderDetailColumns + ` FROM order_details WHERE order_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, o.ID)
	if err != nil {
		return fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()
	o.Details = nil
	for rows.Next() {
		var d entity.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ItemID, &d.PresentationID, &d.Quantity, &d.UnitPrice,
			&d.ConversionFactor, &d.ReceivedQuantity, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return fmt.Errorf("scan order detail: %w", err)
		}
		o.Details = append(o.Details, &d)
	}
	return rows.Err()
}

func (r *OrderRepo) get(ctx context.Context, query string, args ...any) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadDetails(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

// FindSuggestedDraft bloquea el borrador sugerido del proveedor para que dos generaciones no lo dupliquen.
func (r *OrderRepo) FindSuggestedDraft(ctx context.Context, supplierID string) (*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE supplier_id = $1 AND is_suggested AND status = 'draft'
		ORDER BY created_at DESC LIMIT 1`
	if _, inTx := r.q.(pgx.Tx); inTx {
		query += ` FOR UPDATE`
	}
	return r.get(ctx, query, supplierID)
}

// List cabeceras sin líneas, más recientes primero.
func (r *OrderRepo) List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.SupplierID != "" {
		args = append(args, f.SupplierID)
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query, args = paginate(query+` ORDER BY created_at DESC`, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Update persiste la cabecera; las líneas se manejan con AddDetail/UpdateDetail/DeleteDetail.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET supplier_id = $2, status = $3, is_suggested = $4, order_date = $5, expected_date = $6,
			notes = $7, total = $8, sent_at = $9, received_at = $10, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.SupplierID, o.Status, o.IsSuggested, o.OrderDate, o.ExpectedDate, o.Notes, o.Total, o.SentAt, o.ReceivedAt,
	)
	if err != nil {
		return mapWriteError("update order", err)
	}
	return checkAffected(tag.RowsAffected())
}

// Delete borra el pedido; las líneas caen en cascada.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return mapWriteError("delete order", err)
	}
	return nil
}

func (r *OrderRepo) AddDetail(ctx context.Context, d *entity.OrderDetail) error {
	query := `
		INSERT INTO order_details (` + orderDetailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.OrderID, d.ItemID, d.PresentationID, d.Quantity, d.UnitPrice, d.ConversionFactor,
		d.ReceivedQuantity, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("add order detail", err)
	}
	return nil
}

func (r *OrderRepo) UpdateDetail(ctx context.Context, d *entity.OrderDetail) error {
	query := `
		UPDATE order_details SET presentation_id = $2, quantity = $3, unit_price = $4, conversion_factor = $5,
			received_quantity = $6, updated_at = now()
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, d.ID, d.PresentationID, d.Quantity, d.UnitPrice, d.ConversionFactor, d.ReceivedQuantity)
	if err != nil {
		return mapWriteError("update order detail", err)
	}
	return checkAffected(tag.RowsAffected())
}

func (r *OrderRepo) DeleteDetail(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_details WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete order detail: %w", err)
	}
	return nil
}
