package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	// GetByID devuelve el pedido con sus detalles.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate devuelve el pedido con sus detalles y bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// FindSuggestedDraft devuelve el borrador sugerido abierto del proveedor, si existe.
	FindSuggestedDraft(ctx context.Context, supplierID string) (*entity.Order, error)
	List(ctx context.Context, f entity.OrderFilter) ([]*entity.Order, error)
	Update(ctx context.Context, o *entity.Order) error
	Delete(ctx context.Context, id string) error

	AddDetail(ctx context.Context, d *entity.OrderDetail) error
	UpdateDetail(ctx context.Context, d *entity.OrderDetail) error
	DeleteDetail(ctx context.Context, id string) error
}

// ProductionEventRepository define el puerto de persistencia para eventos de producción.
type ProductionEventRepository interface {
	Create(ctx context.Context, e *entity.ProductionEvent) error
	GetByID(ctx context.Context, id string) (*entity.ProductionEvent, error)
	List(ctx context.Context, from, to *time.Time, limit, offset int) ([]*entity.ProductionEvent, error)
}

// LossEventRepository define el puerto de persistencia para mermas.
type LossEventRepository interface {
	Create(ctx context.Context, e *entity.LossEvent) error
	GetByID(ctx context.Context, id string) (*entity.LossEvent, error)
	List(ctx context.Context, f entity.LossFilter) ([]*entity.LossEvent, error)
}
