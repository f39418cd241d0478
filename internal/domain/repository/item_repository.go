package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	List(ctx context.Context, f entity.ItemFilter) ([]*entity.Item, int, error)
	Update(ctx context.Context, item *entity.Item) error
	// UpdateCost actualiza solo el costo promedio (usado por el motor de inventario).
	UpdateCost(ctx context.Context, id string, cost decimal.Decimal) error
	Delete(ctx context.Context, id string) error
	// HasHistory indica si el ítem tiene movimientos, lotes o líneas de pedido.
	HasHistory(ctx context.Context, id string) (bool, error)
}

// PresentationRepository define el puerto de persistencia para Presentation.
type PresentationRepository interface {
	Create(ctx context.Context, p *entity.Presentation) error
	GetByID(ctx context.Context, id string) (*entity.Presentation, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Presentation, error)
	Update(ctx context.Context, p *entity.Presentation) error
	Delete(ctx context.Context, id string) error
	// ClearDefault quita is_default al resto de presentaciones del mismo (ítem, proveedor).
	ClearDefault(ctx context.Context, itemID, supplierID, exceptID string) error
	InUse(ctx context.Context, id string) (bool, error)
}
