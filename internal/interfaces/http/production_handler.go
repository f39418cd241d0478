package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
)

// ProductionHandler registra y consulta eventos de producción.
type ProductionHandler struct {
	uc *inventory.ProductionUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *inventory.ProductionUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar producción
// @Description  Consume los insumos (FEFO) y crea el lote del producto en una sola transacción.
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionEventRequest  true  "product_item_id, quantity, ingredients"
// @Success      201   {object}  dto.ProductionEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/production-events [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionEventRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ProductItemID == "" || len(in.Ingredients) == 0 {
		return validationError(c, "product_item_id e ingredients son requeridos")
	}
	ev, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ev)
}

// List godoc
// @Summary      Listar producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.ProductionEventResponse
// @Router       /api/production-events [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return errorResponse(c, err)
	}
	list, err := h.uc.List(c.Context(), from, to, pageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener evento de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del evento"
// @Success      200  {object}  dto.ProductionEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-events/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	ev, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(ev)
}
