package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength longitud mínima de contraseña al registrar.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro, login y perfil actual.
type AuthUseCase struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{profileRepo: profileRepo, roleRepo: roleRepo, jwtCfg: jwtCfg}
}

// Register crea un perfil: hashea password con bcrypt y persiste. Sin RoleID se asigna el rol staff.
// Devuelve ErrDuplicate si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") || len(in.Password) < MinPasswordLength {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	var role *entity.Role
	if in.RoleID != "" {
		role, err = uc.roleRepo.GetByID(ctx, in.RoleID)
	} else {
		role, err = uc.roleRepo.GetByName(ctx, entity.RoleStaff)
	}
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, fmt.Errorf("rol inexistente: %w", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		name = email
	}
	p := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     name,
		RoleID:       role.ID,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.profileRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return ToProfileResponse(p, role), nil
}

// Login verifica email/password, genera JWT y retorna token + perfil.
// Credenciales inválidas → ErrUnauthorized; perfil inactivo → ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	p, err := uc.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !p.Active {
		return nil, domain.ErrForbidden
	}
	role, err := uc.roleRepo.GetByID(ctx, p.RoleID)
	if err != nil {
		return nil, err
	}
	roleName := ""
	if role != nil {
		roleName = role.Name
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, p.ID, p.RoleID, roleName, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:   token,
		Profile: *ToProfileResponse(p, role),
	}, nil
}

// Me devuelve el perfil autenticado con el nombre del rol y sus permisos.
func (uc *AuthUseCase) Me(ctx context.Context, profileID string) (*dto.ProfileResponse, error) {
	p, err := uc.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	role, err := uc.roleRepo.GetByID(ctx, p.RoleID)
	if err != nil {
		return nil, err
	}
	return ToProfileResponse(p, role), nil
}

// ToProfileResponse arma la salida del perfil; role puede ser nil.
func ToProfileResponse(p *entity.Profile, role *entity.Role) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		RoleID:    p.RoleID,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if role != nil {
		resp.RoleName = role.Name
		resp.Permissions = append([]string(nil), role.Permissions...)
	}
	return resp
}
