package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/auth"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
)

// AuthHandler maneja login, registro y perfiles.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	profiles *usecase.ProfileUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, profiles *usecase.ProfileUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, profiles: profiles}
}

// Register godoc
// @Summary      Registrar usuario
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "email, password, full_name, role_id"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return validationError(c, "email y password son requeridos")
	}
	if len(in.Password) < 8 {
		return validationError(c, "password debe tener al menos 8 caracteres")
	}
	profile, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return validationError(c, "email y password son requeridos")
	}
	resp, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(resp)
}

// Me godoc
// @Summary      Perfil actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.uc.Me(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}

// ListProfiles godoc
// @Summary      Listar usuarios
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "máximo 100"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.ProfileResponse
// @Router       /api/profiles [get]
func (h *AuthHandler) ListProfiles(c *fiber.Ctx) error {
	list, err := h.profiles.List(c.Context(), pageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// UpdateProfileRole godoc
// @Summary      Cambiar el rol de un usuario
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                        true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileRoleRequest  true  "role_id"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id}/role [put]
func (h *AuthHandler) UpdateProfileRole(c *fiber.Ctx) error {
	var in dto.UpdateProfileRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	profile, err := h.profiles.UpdateRole(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfileStatus godoc
// @Summary      Activar o desactivar un usuario
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileStatusRequest  true  "active"
// @Success      200   {object}  dto.ProfileResponse
// @Router       /api/profiles/{id}/status [put]
func (h *AuthHandler) UpdateProfileStatus(c *fiber.Ctx) error {
	var in dto.UpdateProfileStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	profile, err := h.profiles.UpdateStatus(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(profile)
}
