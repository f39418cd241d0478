package inventory

import "github.com/jhoicas/Panaderia-api/internal/application/dto"

// SheetExporter genera hojas de cálculo (.xlsx) a partir de las vistas de inventario.
type SheetExporter interface {
	StockReport(levels []dto.StockLevelResponse) ([]byte, error)
	CountSheet(count *dto.CountResponse) ([]byte, error)
}
