package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
)

// CountHandler maneja conteos físicos de inventario.
type CountHandler struct {
	uc *inventory.CountUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(uc *inventory.CountUseCase) *CountHandler {
	return &CountHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir conteo
// @Description  Crea una línea por ítem activo (del área indicada) con el stock actual como esperado.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCountRequest  true  "storage_area_id, notes"
// @Success      201   {object}  dto.CountResponse
// @Router       /api/inventory-counts [post]
func (h *CountHandler) Open(c *fiber.Ctx) error {
	var in dto.CreateCountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	count, err := h.uc.Open(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(count)
}

// List godoc
// @Summary      Listar conteos
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "open | closed | cancelled"
// @Success      200  {array}  dto.CountResponse
// @Router       /api/inventory-counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("status"), pageQuery(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener conteo con sus líneas
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	count, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(count)
}

// UpdateDetail godoc
// @Summary      Registrar cantidad contada
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string                        true  "ID del conteo"
// @Param        detailId  path  string                        true  "ID de la línea"
// @Param        body      body  dto.UpdateCountDetailRequest  true  "counted_quantity"
// @Success      200  {object}  dto.CountResponse
// @Failure      422  {object}  dto.ErrorResponse  "conteo cerrado"
// @Router       /api/inventory-counts/{id}/details/{detailId} [put]
func (h *CountHandler) UpdateDetail(c *fiber.Ctx) error {
	var in dto.UpdateCountDetailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	count, err := h.uc.UpdateDetail(c.Context(), c.Params("id"), c.Params("detailId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(count)
}

// Close godoc
// @Summary      Cerrar conteo
// @Description  Genera un ajuste por cada línea contada con diferencia.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/inventory-counts/{id}/close [post]
func (h *CountHandler) Close(c *fiber.Ctx) error {
	count, err := h.uc.Close(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(count)
}

// Cancel godoc
// @Summary      Cancelar conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountResponse
// @Router       /api/inventory-counts/{id}/cancel [post]
func (h *CountHandler) Cancel(c *fiber.Ctx) error {
	count, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(count)
}

// Sheet godoc
// @Summary      Planilla de conteo en Excel
// @Tags         counts
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id   path  string  true  "ID del conteo"
// @Success      200
// @Router       /api/inventory-counts/{id}/sheet [get]
func (h *CountHandler) Sheet(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.uc.Sheet(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return sendFile(c, mimeXLSX, "conteo-"+shortID(id)+".xlsx", data)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
