package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// PermissionCache caché de permisos por rol que debe vaciarse al editar roles.
type PermissionCache interface {
	Invalidate(roleID string)
	InvalidateAll()
}

// RoleUseCase gestiona roles y su conjunto de permisos.
type RoleUseCase struct {
	repo  repository.RoleRepository
	cache PermissionCache
}

// NewRoleUseCase construye el caso de uso. cache puede ser nil.
func NewRoleUseCase(repo repository.RoleRepository, cache PermissionCache) *RoleUseCase {
	return &RoleUseCase{repo: repo, cache: cache}
}

// NewRoleResolver devuelve un rbac.Resolver que lee los permisos del rol desde el repositorio.
// Un rol inexistente no tiene permisos.
func NewRoleResolver(repo repository.RoleRepository) rbac.Resolver {
	return rbac.ResolverFunc(func(ctx context.Context, roleID string) (rbac.Set, error) {
		r, err := repo.GetByID(ctx, roleID)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return rbac.Set{}, nil
		}
		return rbac.Set(r.Permissions), nil
	})
}

// ListPermissions devuelve el catálogo de permisos.
func (uc *RoleUseCase) ListPermissions(ctx context.Context) ([]dto.PermissionResponse, error) {
	list, err := uc.repo.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.PermissionResponse{Code: p.Code, Description: p.Description})
	}
	return out, nil
}

func (uc *RoleUseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRoleResponse(r))
	}
	return out, nil
}

func (uc *RoleUseCase) GetByID(ctx context.Context, id string) (*dto.RoleResponse, error) {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return toRoleResponse(r), nil
}

// Create crea un rol no-sistema.
func (uc *RoleUseCase) Create(ctx context.Context, in dto.RoleRequest) (*dto.RoleResponse, error) {
	perms, err := normalizeRole(&in)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	r := &entity.Role{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		Permissions: perms,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return toRoleResponse(r), nil
}

// Update reemplaza nombre, descripción y permisos. El nombre de un rol de sistema no cambia.
func (uc *RoleUseCase) Update(ctx context.Context, id string, in dto.RoleRequest) (*dto.RoleResponse, error) {
	perms, err := normalizeRole(&in)
	if err != nil {
		return nil, err
	}
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	if r.IsSystem && !strings.EqualFold(r.Name, in.Name) {
		return nil, fmt.Errorf("no se puede renombrar un rol de sistema: %w", domain.ErrForbidden)
	}
	if !strings.EqualFold(r.Name, in.Name) {
		other, err := uc.repo.GetByName(ctx, in.Name)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	r.Name = in.Name
	r.Description = in.Description
	r.Permissions = perms
	r.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(id)
	}
	return toRoleResponse(r), nil
}

// Delete elimina un rol sin perfiles asignados. Los roles de sistema no se eliminan.
func (uc *RoleUseCase) Delete(ctx context.Context, id string) error {
	r, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	if r.IsSystem {
		return fmt.Errorf("rol de sistema: %w", domain.ErrForbidden)
	}
	n, err := uc.repo.CountProfiles(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("rol asignado a %d perfiles: %w", n, domain.ErrConflict)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	if uc.cache != nil {
		uc.cache.Invalidate(id)
	}
	return nil
}

// normalizeRole valida el nombre y devuelve los permisos sin duplicados y ordenados.
func normalizeRole(in *dto.RoleRequest) ([]string, error) {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Permissions))
	perms := make([]string, 0, len(in.Permissions))
	for _, p := range in.Permissions {
		p = strings.TrimSpace(p)
		if !rbac.Known(p) {
			return nil, fmt.Errorf("permiso %q desconocido: %w", p, domain.ErrInvalidInput)
		}
		if !seen[p] {
			seen[p] = true
			perms = append(perms, p)
		}
	}
	sort.Strings(perms)
	return perms, nil
}

func toRoleResponse(r *entity.Role) *dto.RoleResponse {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return &dto.RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
