package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/application/auth"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
)

// ProfileUseCase administración de perfiles: listado, cambio de rol y activación.
type ProfileUseCase struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
}

// NewProfileUseCase construye el caso de uso con los puertos de persistencia.
func NewProfileUseCase(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository) *ProfileUseCase {
	return &ProfileUseCase{profileRepo: profileRepo, roleRepo: roleRepo}
}

// List devuelve perfiles paginados con el nombre de su rol.
func (uc *ProfileUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.ProfileResponse, error) {
	page.DefaultPage()
	list, err := uc.profileRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	roles, err := uc.roleRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(roles))
	for _, r := range roles {
		names[r.ID] = r.Name
	}
	out := make([]dto.ProfileResponse, 0, len(list))
	for _, p := range list {
		r := auth.ToProfileResponse(p, nil)
		r.RoleName = names[p.RoleID]
		out = append(out, *r)
	}
	return out, nil
}

// ActiveRole devuelve el rol vigente del perfil. Un perfil inexistente da ErrUnauthorized
// y uno desactivado ErrForbidden.
func (uc *ProfileUseCase) ActiveRole(ctx context.Context, userID string) (string, error) {
	p, err := uc.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrUnauthorized
	}
	if !p.Active {
		return "", fmt.Errorf("perfil desactivado: %w", domain.ErrForbidden)
	}
	return p.RoleID, nil
}

// UpdateRole asigna otro rol al perfil. Un usuario no puede cambiar su propio rol.
func (uc *ProfileUseCase) UpdateRole(ctx context.Context, actorID, id string, in dto.UpdateProfileRoleRequest) (*dto.ProfileResponse, error) {
	if actorID == id {
		return nil, fmt.Errorf("no se puede cambiar el rol propio: %w", domain.ErrForbidden)
	}
	p, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	role, err := uc.roleRepo.GetByID(ctx, in.RoleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("rol %s: %w", in.RoleID, domain.ErrInvalidInput)
	}
	p.RoleID = role.ID
	p.UpdatedAt = time.Now()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return auth.ToProfileResponse(p, role), nil
}

// UpdateStatus activa o desactiva un perfil. Un usuario no puede desactivarse a sí mismo.
func (uc *ProfileUseCase) UpdateStatus(ctx context.Context, actorID, id string, in dto.UpdateProfileStatusRequest) (*dto.ProfileResponse, error) {
	if actorID == id && !in.Active {
		return nil, fmt.Errorf("no se puede desactivar el perfil propio: %w", domain.ErrForbidden)
	}
	p, err := uc.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	p.Active = in.Active
	p.UpdatedAt = time.Now()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	role, err := uc.roleRepo.GetByID(ctx, p.RoleID)
	if err != nil {
		return nil, err
	}
	return auth.ToProfileResponse(p, role), nil
}
