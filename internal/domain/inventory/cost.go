package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost calcula el nuevo costo promedio ponderado tras una entrada (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
// Si el stock actual es negativo o cero, el costo de la entrada reemplaza al anterior.
func WeightedAverageCost(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(6)
}

// UnitCost divide un costo total entre una cantidad; cero si la cantidad no es positiva.
func UnitCost(total, qty decimal.Decimal) decimal.Decimal {
	if !qty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return total.Div(qty).Round(6)
}
