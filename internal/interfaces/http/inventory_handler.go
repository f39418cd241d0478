package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de stock, lotes, movimientos y ajustes (protegido).
type InventoryHandler struct {
	uc *inventory.StockUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.StockUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Stock godoc
// @Summary      Niveles de stock
// @Description  Stock actual por ítem con estado ok, low u out.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        status           query  string  false  "ok | low | out"
// @Param        category_id      query  string  false  "categoría"
// @Param        storage_area_id  query  string  false  "área de almacenamiento"
// @Success      200  {array}   dto.StockLevelResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	var f dto.StockFilter
	if err := c.QueryParser(&f); err != nil {
		return validationError(c, "filtros inválidos")
	}
	levels, err := h.uc.Levels(c.Context(), f)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(levels)
}

// ExportStock godoc
// @Summary      Exportar stock a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "ok | low | out"
// @Success      200
// @Router       /api/inventory/stock/export [get]
func (h *InventoryHandler) ExportStock(c *fiber.Ctx) error {
	var f dto.StockFilter
	if err := c.QueryParser(&f); err != nil {
		return validationError(c, "filtros inválidos")
	}
	data, err := h.uc.ExportLevels(c.Context(), f)
	if err != nil {
		return errorResponse(c, err)
	}
	return sendFile(c, mimeXLSX, "stock-"+time.Now().Format("20060102")+".xlsx", data)
}

// Movements godoc
// @Summary      Movimientos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "ítem"
// @Param        type     query  string  false  "tipo de movimiento"
// @Param        from     query  string  false  "YYYY-MM-DD"
// @Param        to       query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit    query  int     false  "máximo 100"
// @Param        offset   query  int     false  "desplazamiento"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	from, to, err := dateRangeQuery(c)
	if err != nil {
		return errorResponse(c, err)
	}
	page := pageQuery(c)
	list, err := h.uc.Movements(c.Context(), entity.MovementFilter{
		ItemID: c.Query("item_id"),
		Type:   c.Query("type"),
		From:   from,
		To:     to,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// Adjust godoc
// @Summary      Registrar ajuste de inventario
// @Description  Cantidad con signo: positiva crea un lote, negativa consume lotes en orden FEFO.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "item_id, quantity, reason"
// @Success      201   {object}  dto.StockLevelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "stock insuficiente"
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.ItemID == "" {
		return validationError(c, "item_id es requerido")
	}
	level, err := h.uc.Adjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(level)
}

// Batches godoc
// @Summary      Lotes con saldo de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {array}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/batches [get]
func (h *InventoryHandler) Batches(c *fiber.Ctx) error {
	list, err := h.uc.Batches(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}
