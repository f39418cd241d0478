package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
)

// CatalogResource CRUD de un catálogo simple (categorías, tipos de ítem, áreas de almacenamiento).
type CatalogResource struct {
	create func(ctx context.Context, in dto.CatalogRequest) (*dto.CatalogResponse, error)
	get    func(ctx context.Context, id string) (*dto.CatalogResponse, error)
	list   func(ctx context.Context) ([]dto.CatalogResponse, error)
	update func(ctx context.Context, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error)
	remove func(ctx context.Context, id string) error
}

// CatalogHandler agrupa los tres catálogos.
type CatalogHandler struct {
	Categories   *CatalogResource
	ItemTypes    *CatalogResource
	StorageAreas *CatalogResource
}

// NewCatalogHandler construye los recursos a partir del caso de uso.
func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{
		Categories: &CatalogResource{
			create: uc.CreateCategory, get: uc.GetCategory, list: uc.ListCategories,
			update: uc.UpdateCategory, remove: uc.DeleteCategory,
		},
		ItemTypes: &CatalogResource{
			create: uc.CreateItemType, get: uc.GetItemType, list: uc.ListItemTypes,
			update: uc.UpdateItemType, remove: uc.DeleteItemType,
		},
		StorageAreas: &CatalogResource{
			create: uc.CreateStorageArea, get: uc.GetStorageArea, list: uc.ListStorageAreas,
			update: uc.UpdateStorageArea, remove: uc.DeleteStorageArea,
		},
	}
}

// List godoc
// @Summary      Listar registros del catálogo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CatalogResponse
// @Router       /api/categories [get]
// @Router       /api/item-types [get]
// @Router       /api/storage-areas [get]
func (r *CatalogResource) List(c *fiber.Ctx) error {
	list, err := r.list(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener registro del catálogo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.CatalogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (r *CatalogResource) GetByID(c *fiber.Ctx) error {
	out, err := r.get(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear registro del catálogo
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogRequest  true  "name, description, temperature (solo áreas)"
// @Success      201   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (r *CatalogResource) Create(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := r.create(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Editar registro del catálogo
// @Tags         catalogs
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID"
// @Param        body  body  dto.CatalogRequest  true  "name, description, temperature"
// @Success      200   {object}  dto.CatalogResponse
// @Router       /api/categories/{id} [put]
func (r *CatalogResource) Update(c *fiber.Ctx) error {
	var in dto.CatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := r.update(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar registro del catálogo
// @Tags         catalogs
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse  "en uso"
// @Router       /api/categories/{id} [delete]
func (r *CatalogResource) Delete(c *fiber.Ctx) error {
	if err := r.remove(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
