package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body de POST /api/items.
type CreateItemRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	ItemTypeID        string          `json:"item_type_id"`
	StorageAreaID     string          `json:"storage_area_id"`
	DefaultSupplierID string          `json:"default_supplier_id"`
	BaseUnit          string          `json:"base_unit"`
	MinStock          decimal.Decimal `json:"min_stock"`
	MaxStock          decimal.Decimal `json:"max_stock"`
	IsPerishable      bool            `json:"is_perishable"`
	ShelfLifeDays     int             `json:"shelf_life_days"`
}

// UpdateItemRequest body de PUT /api/items/:id. Solo se aplican los campos presentes.
type UpdateItemRequest struct {
	SKU               *string          `json:"sku,omitempty"`
	Name              *string          `json:"name,omitempty"`
	Description       *string          `json:"description,omitempty"`
	CategoryID        *string          `json:"category_id,omitempty"`
	ItemTypeID        *string          `json:"item_type_id,omitempty"`
	StorageAreaID     *string          `json:"storage_area_id,omitempty"`
	DefaultSupplierID *string          `json:"default_supplier_id,omitempty"`
	BaseUnit          *string          `json:"base_unit,omitempty"`
	MinStock          *decimal.Decimal `json:"min_stock,omitempty"`
	MaxStock          *decimal.Decimal `json:"max_stock,omitempty"`
	IsPerishable      *bool            `json:"is_perishable,omitempty"`
	ShelfLifeDays     *int             `json:"shelf_life_days,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"category_id"`
	ItemTypeID        string          `json:"item_type_id"`
	StorageAreaID     string          `json:"storage_area_id"`
	DefaultSupplierID string          `json:"default_supplier_id,omitempty"`
	BaseUnit          string          `json:"base_unit"`
	MinStock          decimal.Decimal `json:"min_stock"`
	MaxStock          decimal.Decimal `json:"max_stock"`
	Cost              decimal.Decimal `json:"cost"`
	IsPerishable      bool            `json:"is_perishable"`
	ShelfLifeDays     int             `json:"shelf_life_days"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// PresentationRequest body para crear o actualizar una presentación.
type PresentationRequest struct {
	SupplierID       string          `json:"supplier_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Price            decimal.Decimal `json:"price"`
	IsDefault        bool            `json:"is_default"`
	Active           *bool           `json:"active,omitempty"`
}

// PresentationResponse salida de una presentación.
type PresentationResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	SupplierID       string          `json:"supplier_id"`
	Name             string          `json:"name"`
	Unit             string          `json:"unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Price            decimal.Decimal `json:"price"`
	UnitPrice        decimal.Decimal `json:"unit_price"` // precio por unidad base
	IsDefault        bool            `json:"is_default"`
	Active           bool            `json:"active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
