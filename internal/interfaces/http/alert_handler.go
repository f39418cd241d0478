package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/alerts"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// AlertHandler maneja alertas de vencimiento de lotes.
type AlertHandler struct {
	uc *alerts.ExpirationUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *alerts.ExpirationUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Scan godoc
// @Summary      Recalcular alertas de vencimiento
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ScanAlertsResponse
// @Router       /api/alerts/expiration/scan [post]
func (h *AlertHandler) Scan(c *fiber.Ctx) error {
	res, err := h.uc.Scan(c.Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(res)
}

// List godoc
// @Summary      Listar alertas de vencimiento
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        status    query  string  false  "pending | resolved"
// @Param        severity  query  string  false  "warning | critical | expired"
// @Success      200  {array}  dto.ExpirationAlertResponse
// @Router       /api/alerts/expiration [get]
func (h *AlertHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.uc.List(c.Context(), entity.AlertFilter{
		Status:   c.Query("status"),
		Severity: c.Query("severity"),
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener alerta
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.ExpirationAlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/expiration/{id} [get]
func (h *AlertHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(a)
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  discard registra una merma con el saldo del lote, use la cierra y extend mueve el vencimiento.
// @Tags         alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la alerta"
// @Param        body  body  dto.ResolveAlertRequest  true  "action, notes, new_expiration_date"
// @Success      200   {object}  dto.ExpirationAlertResponse
// @Failure      409   {object}  dto.ErrorResponse  "ya resuelta"
// @Router       /api/alerts/expiration/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveAlertRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	a, err := h.uc.Resolve(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(a)
}
