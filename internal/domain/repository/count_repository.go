package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// InventoryCountRepository define el puerto de persistencia para conteos físicos.
type InventoryCountRepository interface {
	Create(ctx context.Context, c *entity.InventoryCount) error
	// GetByID devuelve el conteo con sus detalles.
	GetByID(ctx context.Context, id string) (*entity.InventoryCount, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryCount, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.InventoryCount, error)
	Update(ctx context.Context, c *entity.InventoryCount) error
	UpdateDetail(ctx context.Context, d *entity.CountDetail) error
}

// ExpirationAlertRepository define el puerto de persistencia para alertas de vencimiento.
type ExpirationAlertRepository interface {
	Create(ctx context.Context, a *entity.ExpirationAlert) error
	GetByID(ctx context.Context, id string) (*entity.ExpirationAlert, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ExpirationAlert, error)
	GetPendingByBatch(ctx context.Context, batchID string) (*entity.ExpirationAlert, error)
	List(ctx context.Context, f entity.AlertFilter) ([]*entity.ExpirationAlert, error)
	Update(ctx context.Context, a *entity.ExpirationAlert) error
}
