package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	List(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id string) error
	// InUse indica si algún ítem referencia la categoría.
	InUse(ctx context.Context, id string) (bool, error)
}

// ItemTypeRepository define el puerto de persistencia para ItemType.
type ItemTypeRepository interface {
	Create(ctx context.Context, t *entity.ItemType) error
	GetByID(ctx context.Context, id string) (*entity.ItemType, error)
	List(ctx context.Context) ([]*entity.ItemType, error)
	Update(ctx context.Context, t *entity.ItemType) error
	Delete(ctx context.Context, id string) error
	InUse(ctx context.Context, id string) (bool, error)
}

// StorageAreaRepository define el puerto de persistencia para StorageArea.
type StorageAreaRepository interface {
	Create(ctx context.Context, a *entity.StorageArea) error
	GetByID(ctx context.Context, id string) (*entity.StorageArea, error)
	List(ctx context.Context) ([]*entity.StorageArea, error)
	Update(ctx context.Context, a *entity.StorageArea) error
	Delete(ctx context.Context, id string) error
	InUse(ctx context.Context, id string) (bool, error)
}
