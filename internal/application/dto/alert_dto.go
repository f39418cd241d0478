package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpirationAlertResponse salida de una alerta de vencimiento.
type ExpirationAlertResponse struct {
	ID             string          `json:"id"`
	BatchID        string          `json:"batch_id"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name,omitempty"`
	Remaining      decimal.Decimal `json:"remaining"`
	ExpirationDate string          `json:"expiration_date"`
	Severity       string          `json:"severity"`
	Status         string          `json:"status"`
	Resolution     string          `json:"resolution,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	LossEventID    string          `json:"loss_event_id,omitempty"`
	ResolvedBy     string          `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ScanAlertsResponse resultado del recálculo de alertas.
type ScanAlertsResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Closed  int `json:"closed"` // pendientes de lotes ya sin saldo
}

// ResolveAlertRequest body de POST /api/alerts/expiration/:id/resolve.
type ResolveAlertRequest struct {
	Action            string `json:"action"` // discard, use, extend
	Notes             string `json:"notes"`
	NewExpirationDate string `json:"new_expiration_date,omitempty"`
}

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	ItemCount       int                  `json:"item_count"`
	LowStockCount   int                  `json:"low_stock_count"`
	OutOfStockCount int                  `json:"out_of_stock_count"`
	InventoryValue  decimal.Decimal      `json:"inventory_value"`
	PendingAlerts   map[string]int       `json:"pending_alerts"` // por severidad
	OpenOrders      int                  `json:"open_orders"`    // draft + sent
	LossValue30d    decimal.Decimal      `json:"loss_value_30d"`
	ProductionCount int                  `json:"production_count_30d"`
	DailyLosses     []DailyValueDTO      `json:"daily_losses"`
	LowStockItems   []StockLevelResponse `json:"low_stock_items"`
	GeneratedAt     time.Time            `json:"generated_at"`
}

// DailyValueDTO punto de una serie diaria para gráficos.
type DailyValueDTO struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"value"`
}
