package inventory

import (
	"time"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockStatus clasifica la existencia frente al mínimo: out (≤ 0), low (< mínimo) u ok.
func StockStatus(qty, minStock decimal.Decimal) string {
	if qty.LessThanOrEqual(decimal.Zero) {
		return entity.StockStatusOut
	}
	if qty.LessThan(minStock) {
		return entity.StockStatusLow
	}
	return entity.StockStatusOK
}

// TargetStock nivel al que se quiere reponer: el máximo si está definido, si no mínimo × cobertura.
func TargetStock(minStock, maxStock, coverage decimal.Decimal) decimal.Decimal {
	if maxStock.GreaterThan(decimal.Zero) {
		return maxStock
	}
	return minStock.Mul(coverage)
}

// PresentationsNeeded cantidad entera de presentaciones que cubre need unidades base.
func PresentationsNeeded(need, conversionFactor decimal.Decimal) decimal.Decimal {
	if !need.GreaterThan(decimal.Zero) || !conversionFactor.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return need.Div(conversionFactor).Ceil()
}

// ExpirationSeverity clasifica un vencimiento respecto de hoy.
// Devuelve false si el lote todavía no entra en la ventana de aviso.
// Las fechas se comparan por día calendario en UTC.
func ExpirationSeverity(expiration, now time.Time, warningDays, criticalDays int) (string, bool) {
	exp := StartOfDay(expiration)
	today := StartOfDay(now)
	days := int(exp.Sub(today).Hours() / 24)
	switch {
	case days < 0:
		return entity.SeverityExpired, true
	case days <= criticalDays:
		return entity.SeverityCritical, true
	case days <= warningDays:
		return entity.SeverityWarning, true
	}
	return "", false
}

// ExpirationFor fecha de vencimiento de un lote producido o recibido en date; nil si el ítem no es perecedero.
func ExpirationFor(item *entity.Item, date time.Time) *time.Time {
	if item == nil || !item.IsPerishable || item.ShelfLifeDays <= 0 {
		return nil
	}
	exp := StartOfDay(date).AddDate(0, 0, item.ShelfLifeDays)
	return &exp
}

// StartOfDay medianoche UTC del día calendario de t, el mismo criterio de dto.ParseDate.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
