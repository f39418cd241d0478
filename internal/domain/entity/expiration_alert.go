package entity

import "time"

// Severidad de una alerta de vencimiento.
const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	SeverityExpired  = "expired"
)

// Estados de una alerta.
const (
	AlertStatusPending  = "pending"
	AlertStatusResolved = "resolved"
)

// Acciones de resolución.
const (
	AlertActionDiscard = "discard"
	AlertActionUse     = "use"
	AlertActionExtend  = "extend"
)

// AlertResolutionDepleted cierre automático cuando el lote se quedó sin saldo.
const AlertResolutionDepleted = "depleted"

// ExpirationAlert aviso sobre un lote próximo a vencer o vencido.
// Hay a lo sumo una alerta pendiente por lote.
type ExpirationAlert struct {
	ID             string
	BatchID        string
	ItemID         string
	ExpirationDate time.Time
	Severity       string
	Status         string
	Resolution     string // discard, use, extend, depleted
	Notes          string
	LossEventID    string // merma generada al descartar
	ResolvedBy     string
	ResolvedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AlertFilter criterios para listar alertas.
type AlertFilter struct {
	Status   string
	Severity string
	Limit    int
	Offset   int
}
