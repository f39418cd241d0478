package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// ItemHandler maneja ítems de inventario y sus presentaciones de compra.
type ItemHandler struct {
	uc *usecase.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *usecase.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// List godoc
// @Summary      Listar ítems
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        category_id      query  string  false  "categoría"
// @Param        storage_area_id  query  string  false  "área de almacenamiento"
// @Param        search           query  string  false  "nombre o SKU"
// @Param        active           query  bool    false  "solo activos"
// @Param        limit            query  int     false  "máximo 100"
// @Param        offset           query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	out, err := h.uc.List(c.Context(), entity.ItemFilter{
		CategoryID:    c.Query("category_id"),
		StorageAreaID: c.Query("storage_area_id"),
		Search:        c.Query("search"),
		ActiveOnly:    c.QueryBool("active", false),
		Limit:         page.Limit,
		Offset:        page.Offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	item, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(item)
}

// Create godoc
// @Summary      Crear ítem
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "sku, name, base_unit, min/max stock"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "SKU duplicado"
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.SKU == "" || in.Name == "" {
		return validationError(c, "sku y name son requeridos")
	}
	item, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update godoc
// @Summary      Editar ítem
// @Description  Solo se modifican los campos presentes. El costo lo mantienen los movimientos.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del ítem"
// @Param        body  body  dto.UpdateItemRequest  true  "campos a modificar"
// @Success      200   {object}  dto.ItemResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(item)
}

// Delete godoc
// @Summary      Eliminar ítem
// @Description  Con historial (movimientos, lotes o pedidos) el ítem solo se desactiva.
// @Tags         items
// @Security     Bearer
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  map[string]bool  "desactivado"
// @Success      204
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	soft, err := h.uc.Delete(c.Context(), c.Params("id"))
	return deleted(c, soft, err)
}

// ListPresentations godoc
// @Summary      Presentaciones de un ítem
// @Tags         presentations
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.PresentationResponse
// @Router       /api/items/{id}/presentations [get]
func (h *ItemHandler) ListPresentations(c *fiber.Ctx) error {
	list, err := h.uc.ListPresentations(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// CreatePresentation godoc
// @Summary      Crear presentación
// @Tags         presentations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del ítem"
// @Param        body  body  dto.PresentationRequest  true  "supplier_id, name, unit, conversion_factor, price, is_default"
// @Success      201   {object}  dto.PresentationResponse
// @Router       /api/items/{id}/presentations [post]
func (h *ItemHandler) CreatePresentation(c *fiber.Ctx) error {
	var in dto.PresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.CreatePresentation(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// UpdatePresentation godoc
// @Summary      Editar presentación
// @Tags         presentations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la presentación"
// @Param        body  body  dto.PresentationRequest  true  "datos de la presentación"
// @Success      200   {object}  dto.PresentationResponse
// @Router       /api/presentations/{id} [put]
func (h *ItemHandler) UpdatePresentation(c *fiber.Ctx) error {
	var in dto.PresentationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.UpdatePresentation(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(p)
}

// DeletePresentation godoc
// @Summary      Eliminar presentación
// @Tags         presentations
// @Security     Bearer
// @Param        id   path  string  true  "ID de la presentación"
// @Success      200  {object}  map[string]bool  "desactivada"
// @Success      204
// @Router       /api/presentations/{id} [delete]
func (h *ItemHandler) DeletePresentation(c *fiber.Ctx) error {
	soft, err := h.uc.DeletePresentation(c.Context(), c.Params("id"))
	return deleted(c, soft, err)
}
