package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido a proveedor.
const (
	OrderStatusDraft     = "draft"
	OrderStatusSent      = "sent"
	OrderStatusReceived  = "received"
	OrderStatusCancelled = "cancelled"
)

// Order representa un pedido de compra a un proveedor.
// Total = Σ Quantity × UnitPrice de los detalles.
type Order struct {
	ID           string
	SupplierID   string
	Status       string
	IsSuggested  bool // generado por el cálculo de pedidos sugeridos
	OrderDate    time.Time
	ExpectedDate *time.Time
	Notes        string
	Total        decimal.Decimal
	CreatedBy    string
	SentAt       *time.Time
	ReceivedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Details      []*OrderDetail
}

// OrderDetail es una línea del pedido expresada en presentaciones.
type OrderDetail struct {
	ID               string
	OrderID          string
	ItemID           string
	PresentationID   string
	Quantity         decimal.Decimal // presentaciones pedidas
	UnitPrice        decimal.Decimal // precio por presentación
	ConversionFactor decimal.Decimal // copia del factor al momento del pedido
	ReceivedQuantity decimal.Decimal // presentaciones recibidas
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Subtotal devuelve Quantity × UnitPrice.
func (d *OrderDetail) Subtotal() decimal.Decimal {
	return d.Quantity.Mul(d.UnitPrice)
}

// Recalculate actualiza Total a partir de los detalles cargados.
func (o *Order) Recalculate() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Subtotal())
	}
	o.Total = total
}

// CanTransition indica si el pedido puede pasar de su estado actual a next.
// draft → sent → received; draft|sent → cancelled.
func (o *Order) CanTransition(next string) bool {
	switch next {
	case OrderStatusSent:
		return o.Status == OrderStatusDraft
	case OrderStatusReceived:
		return o.Status == OrderStatusSent
	case OrderStatusCancelled:
		return o.Status == OrderStatusDraft || o.Status == OrderStatusSent
	}
	return false
}

// OrderFilter criterios para listar pedidos.
type OrderFilter struct {
	Status     string
	SupplierID string
	Limit      int
	Offset     int
}
