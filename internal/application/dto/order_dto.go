package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body de POST /api/orders.
type CreateOrderRequest struct {
	SupplierID   string               `json:"supplier_id"`
	ExpectedDate string               `json:"expected_date,omitempty"`
	Notes        string               `json:"notes"`
	Details      []OrderDetailRequest `json:"details"`
}

// UpdateOrderRequest body de PUT /api/orders/:id (solo borradores).
type UpdateOrderRequest struct {
	ExpectedDate *string `json:"expected_date,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// OrderDetailRequest línea de pedido. UnitPrice nil = precio de la presentación.
type OrderDetailRequest struct {
	ItemID         string           `json:"item_id"`
	PresentationID string           `json:"presentation_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
}

// OrderDetailResponse salida de una línea de pedido.
type OrderDetailResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name,omitempty"`
	PresentationID   string          `json:"presentation_id"`
	PresentationName string          `json:"presentation_name,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

// OrderResponse salida de un pedido.
type OrderResponse struct {
	ID           string                `json:"id"`
	SupplierID   string                `json:"supplier_id"`
	SupplierName string                `json:"supplier_name,omitempty"`
	Status       string                `json:"status"`
	IsSuggested  bool                  `json:"is_suggested"`
	OrderDate    time.Time             `json:"order_date"`
	ExpectedDate string                `json:"expected_date,omitempty"`
	Notes        string                `json:"notes"`
	Total        decimal.Decimal       `json:"total"`
	CreatedBy    string                `json:"created_by,omitempty"`
	SentAt       *time.Time            `json:"sent_at,omitempty"`
	ReceivedAt   *time.Time            `json:"received_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Details      []OrderDetailResponse `json:"details,omitempty"`
}

// ReceiveLineRequest cantidad recibida de una línea, en presentaciones.
type ReceiveLineRequest struct {
	DetailID         string          `json:"detail_id"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ExpirationDate   string          `json:"expiration_date,omitempty"`
	LotCode          string          `json:"lot_code,omitempty"`
}

// ReceiveOrderRequest body de POST /api/orders/:id/receive.
// Sin líneas se recibe todo lo pedido.
type ReceiveOrderRequest struct {
	Lines []ReceiveLineRequest `json:"lines"`
}

// SuggestedLineResponse línea calculada para un ítem bajo mínimo.
type SuggestedLineResponse struct {
	ItemID           string          `json:"item_id"`
	ItemName         string          `json:"item_name"`
	PresentationID   string          `json:"presentation_id"`
	CurrentStock     decimal.Decimal `json:"current_stock"`
	TargetStock      decimal.Decimal `json:"target_stock"`
	Need             decimal.Decimal `json:"need"` // unidades base
	Quantity         decimal.Decimal `json:"quantity"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}

// SuggestedOrderResponse pedido sugerido creado o actualizado para un proveedor.
type SuggestedOrderResponse struct {
	OrderID    string                  `json:"order_id"`
	SupplierID string                  `json:"supplier_id"`
	Created    bool                    `json:"created"` // false = se actualizó un borrador existente
	Total      decimal.Decimal         `json:"total"`
	Lines      []SuggestedLineResponse `json:"lines"`
}

// SkippedItemResponse ítem bajo mínimo que no se pudo pedir.
type SkippedItemResponse struct {
	ItemID   string `json:"item_id"`
	ItemName string `json:"item_name"`
	Reason   string `json:"reason"`
}

// GenerateSuggestedOrdersResponse resultado de POST /api/orders/suggested.
type GenerateSuggestedOrdersResponse struct {
	Orders  []SuggestedOrderResponse `json:"orders"`
	Skipped []SkippedItemResponse    `json:"skipped"`
}
