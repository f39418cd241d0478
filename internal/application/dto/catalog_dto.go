package dto

import "time"

// CatalogRequest body para crear o actualizar categorías, tipos de ítem y áreas de almacenamiento.
// Temperature solo aplica a áreas de almacenamiento.
type CatalogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Temperature string `json:"temperature,omitempty"`
}

// CatalogResponse salida común de los catálogos.
type CatalogResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Temperature string    `json:"temperature,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierRequest body para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name         string `json:"name"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	LeadTimeDays int    `json:"lead_time_days"`
	Active       *bool  `json:"active,omitempty"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contact_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Address      string    `json:"address"`
	LeadTimeDays int       `json:"lead_time_days"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
