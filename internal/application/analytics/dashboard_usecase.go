// Package analytics contiene el resumen operativo del dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Panaderia-api/internal/domain/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

const (
	dashboardWindowDays = 30 // ventana de mermas y producción
	dashboardLowItems   = 10 // ítems bajo mínimo en el widget
)

// DashboardUseCase arma el resumen de inventario, alertas, pedidos, mermas y producción.
type DashboardUseCase struct {
	repos repository.Repositories
	now   func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repos repository.Repositories) *DashboardUseCase {
	return &DashboardUseCase{repos: repos, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco consultas en paralelo:
//  1. ListLevels              → conteos de stock, valor, ítems bajo mínimo
//  2. Alerts(pending)         → alertas por severidad
//  3. Orders(draft) + (sent)  → pedidos abiertos
//  4. Losses(30 días)         → valor y serie diaria de mermas
//  5. Production(30 días)     → eventos de producción
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()
	today := invdomain.StartOfDay(now)
	from := today.AddDate(0, 0, -(dashboardWindowDays - 1))

	type levelsResult struct {
		levels []*entity.StockLevel
		err    error
	}
	type alertsResult struct {
		alerts []*entity.ExpirationAlert
		err    error
	}
	type countResult struct {
		n   int
		err error
	}
	type lossesResult struct {
		losses []*entity.LossEvent
		err    error
	}

	levelsCh := make(chan levelsResult, 1)
	alertsCh := make(chan alertsResult, 1)
	ordersCh := make(chan countResult, 1)
	lossesCh := make(chan lossesResult, 1)
	prodCh := make(chan countResult, 1)

	go func() {
		l, err := uc.repos.Stock.ListLevels(ctx)
		levelsCh <- levelsResult{l, err}
	}()
	go func() {
		a, err := uc.repos.Alerts.List(ctx, entity.AlertFilter{Status: entity.AlertStatusPending})
		alertsCh <- alertsResult{a, err}
	}()
	go func() {
		n := 0
		for _, status := range []string{entity.OrderStatusDraft, entity.OrderStatusSent} {
			list, err := uc.repos.Orders.List(ctx, entity.OrderFilter{Status: status})
			if err != nil {
				ordersCh <- countResult{err: err}
				return
			}
			n += len(list)
		}
		ordersCh <- countResult{n: n}
	}()
	go func() {
		l, err := uc.repos.Losses.List(ctx, entity.LossFilter{From: &from})
		lossesCh <- lossesResult{l, err}
	}()
	go func() {
		list, err := uc.repos.Production.List(ctx, &from, nil, 0, 0)
		prodCh <- countResult{len(list), err}
	}()

	levels := <-levelsCh
	alerts := <-alertsCh
	orders := <-ordersCh
	losses := <-lossesCh
	prod := <-prodCh

	if levels.err != nil {
		return nil, fmt.Errorf("dashboard: stock: %w", levels.err)
	}
	if alerts.err != nil {
		return nil, fmt.Errorf("dashboard: alertas: %w", alerts.err)
	}
	if orders.err != nil {
		return nil, fmt.Errorf("dashboard: pedidos: %w", orders.err)
	}
	if losses.err != nil {
		return nil, fmt.Errorf("dashboard: mermas: %w", losses.err)
	}
	if prod.err != nil {
		return nil, fmt.Errorf("dashboard: producción: %w", prod.err)
	}

	summary := &dto.DashboardSummaryDTO{
		ItemCount:       len(levels.levels),
		InventoryValue:  decimal.Zero,
		PendingAlerts:   map[string]int{entity.SeverityWarning: 0, entity.SeverityCritical: 0, entity.SeverityExpired: 0},
		OpenOrders:      orders.n,
		LossValue30d:    decimal.Zero,
		ProductionCount: prod.n,
		LowStockItems:   []dto.StockLevelResponse{},
		GeneratedAt:     now,
	}
	for _, l := range levels.levels {
		r := appinventory.ToStockLevelResponse(l)
		summary.InventoryValue = summary.InventoryValue.Add(r.Value)
		switch r.Status {
		case entity.StockStatusOut:
			summary.OutOfStockCount++
		case entity.StockStatusLow:
			summary.LowStockCount++
			if len(summary.LowStockItems) < dashboardLowItems {
				summary.LowStockItems = append(summary.LowStockItems, r)
			}
		}
	}
	for _, a := range alerts.alerts {
		summary.PendingAlerts[a.Severity]++
	}

	daily := make(map[string]decimal.Decimal, dashboardWindowDays)
	for _, e := range losses.losses {
		summary.LossValue30d = summary.LossValue30d.Add(e.TotalCost)
		key := e.Date.UTC().Format(dto.DateLayout)
		daily[key] = daily[key].Add(e.TotalCost)
	}
	summary.DailyLosses = make([]dto.DailyValueDTO, 0, dashboardWindowDays)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dto.DateLayout)
		summary.DailyLosses = append(summary.DailyLosses, dto.DailyValueDTO{Date: key, Value: daily[key].Round(2)})
	}
	summary.InventoryValue = summary.InventoryValue.Round(2)
	summary.LossValue30d = summary.LossValue30d.Round(2)
	return summary, nil
}
