package entity

import "time"

// Category agrupa insumos y productos (harinas, lácteos, panes...).
type Category struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ItemType clasifica el uso del ítem (materia prima, producto terminado, empaque).
type ItemType struct {
	ID          string
	Name        string // único
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clases de temperatura de un área de almacenamiento.
const (
	TemperatureAmbient      = "ambient"
	TemperatureRefrigerated = "refrigerated"
	TemperatureFrozen       = "frozen"
)

// StorageArea representa un lugar físico de almacenamiento (bodega seca, cuarto frío, congelador).
type StorageArea struct {
	ID          string
	Name        string // único
	Description string
	Temperature string // ambient, refrigerated, frozen
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidTemperature indica si t es una clase de temperatura conocida.
func ValidTemperature(t string) bool {
	switch t {
	case TemperatureAmbient, TemperatureRefrigerated, TemperatureFrozen:
		return true
	}
	return false
}
