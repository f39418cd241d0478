package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar el stock por ítem.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(ctx context.Context, itemID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
	// ListLevels devuelve la vista de stock de los ítems activos.
	ListLevels(ctx context.Context) ([]*entity.StockLevel, error)
}

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	Create(ctx context.Context, b *entity.ItemBatch) error
	GetByID(ctx context.Context, id string) (*entity.ItemBatch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ItemBatch, error)
	// ListAvailable devuelve los lotes con saldo > 0 en orden FEFO (vencimiento más próximo primero,
	// sin vencimiento al final). Bloquea las filas cuando se usa dentro de una transacción.
	ListAvailable(ctx context.Context, itemID string) ([]*entity.ItemBatch, error)
	// ListExpiring devuelve los lotes con saldo > 0 y fecha de vencimiento.
	ListExpiring(ctx context.Context) ([]*entity.ItemBatch, error)
	Update(ctx context.Context, b *entity.ItemBatch) error
}
