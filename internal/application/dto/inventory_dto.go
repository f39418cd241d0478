package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelResponse fila de la vista de stock.
type StockLevelResponse struct {
	ItemID          string          `json:"item_id"`
	SKU             string          `json:"sku"`
	ItemName        string          `json:"item_name"`
	BaseUnit        string          `json:"base_unit"`
	CategoryID      string          `json:"category_id,omitempty"`
	CategoryName    string          `json:"category_name,omitempty"`
	StorageAreaID   string          `json:"storage_area_id,omitempty"`
	StorageAreaName string          `json:"storage_area_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	MinStock        decimal.Decimal `json:"min_stock"`
	MaxStock        decimal.Decimal `json:"max_stock"`
	Status          string          `json:"status"` // ok, low, out
	Cost            decimal.Decimal `json:"cost"`
	Value           decimal.Decimal `json:"value"` // Quantity × Cost
}

// StockFilter filtros de GET /api/inventory/stock.
type StockFilter struct {
	Status        string `query:"status"`
	CategoryID    string `query:"category_id"`
	StorageAreaID string `query:"storage_area_id"`
}

// MovementResponse salida de un movimiento de inventario.
type MovementResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	ItemID        string          `json:"item_id"`
	BatchID       string          `json:"batch_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Reason        string          `json:"reason,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// AdjustmentRequest body de POST /api/inventory/adjustments.
// Quantity con signo: positivo suma, negativo resta.
type AdjustmentRequest struct {
	ItemID         string           `json:"item_id"`
	Quantity       decimal.Decimal  `json:"quantity"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	ExpirationDate string           `json:"expiration_date,omitempty"`
	Reason         string           `json:"reason"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	LotCode        string          `json:"lot_code,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	Remaining      decimal.Decimal `json:"remaining"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	ExpirationDate string          `json:"expiration_date,omitempty"`
	ReceivedAt     time.Time       `json:"received_at"`
	SourceType     string          `json:"source_type"`
	SourceID       string          `json:"source_id,omitempty"`
}

// ProductionIngredientRequest insumo consumido en un evento de producción.
type ProductionIngredientRequest struct {
	ItemID   string          `json:"item_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// CreateProductionEventRequest body de POST /api/production-events.
type CreateProductionEventRequest struct {
	ProductItemID string                        `json:"product_item_id"`
	Quantity      decimal.Decimal               `json:"quantity"`
	Date          string                        `json:"date,omitempty"`
	Notes         string                        `json:"notes"`
	Ingredients   []ProductionIngredientRequest `json:"ingredients"`
}

// ProductionEventDetailResponse insumo consumido.
type ProductionEventDetailResponse struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ProductionEventResponse salida de un evento de producción.
type ProductionEventResponse struct {
	ID            string                          `json:"id"`
	ProductItemID string                          `json:"product_item_id"`
	Quantity      decimal.Decimal                 `json:"quantity"`
	UnitCost      decimal.Decimal                 `json:"unit_cost"`
	TotalCost     decimal.Decimal                 `json:"total_cost"`
	BatchID       string                          `json:"batch_id"`
	Date          time.Time                       `json:"date"`
	Notes         string                          `json:"notes"`
	CreatedBy     string                          `json:"created_by,omitempty"`
	Ingredients   []ProductionEventDetailResponse `json:"ingredients,omitempty"`
}

// LossDetailRequest línea de una merma; sin BatchID se consume FEFO.
type LossDetailRequest struct {
	ItemID   string          `json:"item_id"`
	BatchID  string          `json:"batch_id,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	Notes    string          `json:"notes"`
}

// CreateLossEventRequest body de POST /api/loss-events.
type CreateLossEventRequest struct {
	Reason  string              `json:"reason"`
	Date    string              `json:"date,omitempty"`
	Notes   string              `json:"notes"`
	Details []LossDetailRequest `json:"details"`
}

// LossDetailResponse línea de merma.
type LossDetailResponse struct {
	ItemID    string          `json:"item_id"`
	BatchID   string          `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Notes     string          `json:"notes,omitempty"`
}

// LossEventResponse salida de una merma.
type LossEventResponse struct {
	ID        string               `json:"id"`
	Reason    string               `json:"reason"`
	Date      time.Time            `json:"date"`
	Notes     string               `json:"notes"`
	TotalCost decimal.Decimal      `json:"total_cost"`
	CreatedBy string               `json:"created_by,omitempty"`
	Details   []LossDetailResponse `json:"details,omitempty"`
}

// CreateCountRequest body de POST /api/inventory-counts.
type CreateCountRequest struct {
	StorageAreaID string `json:"storage_area_id,omitempty"`
	Notes         string `json:"notes"`
}

// UpdateCountDetailRequest body de PUT /api/inventory-counts/:id/details/:detailId.
type UpdateCountDetailRequest struct {
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
}

// CountDetailResponse línea del conteo.
type CountDetailResponse struct {
	ID               string           `json:"id"`
	ItemID           string           `json:"item_id"`
	SKU              string           `json:"sku,omitempty"`
	ItemName         string           `json:"item_name,omitempty"`
	BaseUnit         string           `json:"base_unit,omitempty"`
	ExpectedQuantity decimal.Decimal  `json:"expected_quantity"`
	CountedQuantity  *decimal.Decimal `json:"counted_quantity"`
	Difference       decimal.Decimal  `json:"difference"`
}

// CountResponse salida de un conteo.
type CountResponse struct {
	ID            string                `json:"id"`
	StorageAreaID string                `json:"storage_area_id,omitempty"`
	Status        string                `json:"status"`
	Notes         string                `json:"notes"`
	CreatedBy     string                `json:"created_by,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	ClosedAt      *time.Time            `json:"closed_at,omitempty"`
	Adjustments   int                   `json:"adjustments,omitempty"` // movimientos generados al cerrar
	Details       []CountDetailResponse `json:"details,omitempty"`
}
