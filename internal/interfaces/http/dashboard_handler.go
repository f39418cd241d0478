package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Panaderia-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve el resumen de inventario, alertas, pedidos y mermas.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (item_count, low/out stock, inventory_value,
// pending_alerts por severidad, open_orders, pérdidas y producción de 30 días,
// serie diaria de mermas).
//
// @Summary      Resumen del tablero
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(summary)
}
