package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// LossHandler registra y consulta mermas.
type LossHandler struct {
	uc *inventory.LossUseCase
}

// NewLossHandler construye el handler.
func NewLossHandler(uc *inventory.LossUseCase) *LossHandler {
	return &LossHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar merma
// @Tags         losses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLossEventRequest  true  "reason, details"
// @Success      201   {object}  dto.LossEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/loss-events [post]
func (h *LossHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateLossEventRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if len(in.Details) == 0 {
		return validationError(c, "details es requerido")
	}
	ev, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ev)
}

// List godoc
// @Summary      Listar mermas
// @Tags         losses
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        reason  query  string  false  "expired | damaged | production_error | theft | other"
// @Success      200  {array}  dto.LossEventResponse
// @Router       /api/loss-events [get]
func (h *LossHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return errorResponse(c, err)
	}
	page := pageQuery(c)
	list, err := h.uc.List(c.Context(), entity.LossFilter{
		From:   from,
		To:     to,
		Reason: c.Query("reason"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener merma
// @Tags         losses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la merma"
// @Success      200  {object}  dto.LossEventResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/loss-events/{id} [get]
func (h *LossHandler) GetByID(c *fiber.Ctx) error {
	ev, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(ev)
}
