package repository

import (
	"context"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para perfiles de usuario.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Profile, error)
	Update(ctx context.Context, p *entity.Profile) error
}

// RoleRepository define el puerto de persistencia para roles y su conjunto de permisos.
type RoleRepository interface {
	Create(ctx context.Context, r *entity.Role) error
	// GetByID devuelve el rol con sus permisos.
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	List(ctx context.Context) ([]*entity.Role, error)
	// Update actualiza el rol y reemplaza su conjunto de permisos.
	Update(ctx context.Context, r *entity.Role) error
	Delete(ctx context.Context, id string) error
	CountProfiles(ctx context.Context, roleID string) (int, error)
	ListPermissions(ctx context.Context) ([]entity.Permission, error)
}
