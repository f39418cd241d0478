package entity

import "time"

// Supplier representa un proveedor de insumos.
// Active=false cuando se elimina un proveedor que ya tiene pedidos (borrado lógico).
type Supplier struct {
	ID           string
	Name         string
	ContactName  string
	Phone        string
	Email        string
	Address      string
	LeadTimeDays int // días entre envío y recepción del pedido
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
