package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/purchasing"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

// OrderHandler maneja pedidos de compra y la generación de pedidos sugeridos.
type OrderHandler struct {
	uc *purchasing.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *purchasing.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "draft | sent | received | cancelled"
// @Param        supplier_id  query  string  false  "proveedor"
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	page := pageQuery(c)
	list, err := h.uc.List(c.Context(), entity.OrderFilter{
		Status:     c.Query("status"),
		SupplierID: c.Query("supplier_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// Create godoc
// @Summary      Crear pedido en borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "supplier_id, expected_date, notes, details"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.SupplierID == "" {
		return validationError(c, "supplier_id es requerido")
	}
	o, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

// Update godoc
// @Summary      Editar cabecera de un borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.UpdateOrderRequest  true  "expected_date, notes"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse  "no es borrador"
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	o, err := h.uc.Update(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// Delete godoc
// @Summary      Eliminar borrador
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID del pedido"
// @Success      204
// @Failure      422  {object}  dto.ErrorResponse  "no es borrador"
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddDetail godoc
// @Summary      Agregar línea a un borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.OrderDetailRequest  true  "item_id, presentation_id, quantity, unit_price"
// @Success      201   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse  "línea repetida"
// @Router       /api/orders/{id}/details [post]
func (h *OrderHandler) AddDetail(c *fiber.Ctx) error {
	var in dto.OrderDetailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	o, err := h.uc.AddDetail(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(o)
}

// UpdateDetail godoc
// @Summary      Editar línea de un borrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id        path  string                  true  "ID del pedido"
// @Param        detailId  path  string                  true  "ID de la línea"
// @Param        body      body  dto.OrderDetailRequest  true  "item_id, presentation_id, quantity, unit_price"
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/orders/{id}/details/{detailId} [put]
func (h *OrderHandler) UpdateDetail(c *fiber.Ctx) error {
	var in dto.OrderDetailRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	o, err := h.uc.UpdateDetail(c.Context(), c.Params("id"), c.Params("detailId"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// RemoveDetail godoc
// @Summary      Quitar línea de un borrador
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id        path  string  true  "ID del pedido"
// @Param        detailId  path  string  true  "ID de la línea"
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/orders/{id}/details/{detailId} [delete]
func (h *OrderHandler) RemoveDetail(c *fiber.Ctx) error {
	o, err := h.uc.RemoveDetail(c.Context(), c.Params("id"), c.Params("detailId"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// Send godoc
// @Summary      Enviar pedido al proveedor
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/send [post]
func (h *OrderHandler) Send(c *fiber.Ctx) error {
	o, err := h.uc.Send(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	o, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// Receive godoc
// @Summary      Recibir pedido
// @Description  Crea un lote y un movimiento de entrada por línea recibida y actualiza el costo promedio.
// @Description  Sin líneas en el cuerpo se recibe todo lo pedido.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del pedido"
// @Param        body  body  dto.ReceiveOrderRequest  false "lines"
// @Success      200   {object}  dto.OrderResponse
// @Failure      422   {object}  dto.ErrorResponse  "el pedido no está enviado"
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	o, err := h.uc.Receive(c.Context(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(o)
}

// PDF godoc
// @Summary      Orden de compra en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pdf [get]
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.uc.PDF(c.Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return sendFile(c, mimePDF, "pedido-"+shortID(id)+".pdf", data)
}

// GenerateSuggested godoc
// @Summary      Generar pedidos sugeridos
// @Description  Agrupa por proveedor los ítems bajo el mínimo. Repetir la operación no duplica pedidos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.GenerateSuggestedOrdersResponse
// @Router       /api/orders/generate-suggested [post]
func (h *OrderHandler) GenerateSuggested(c *fiber.Ctx) error {
	res, err := h.uc.GenerateSuggested(c.Context(), GetUserID(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(res)
}
