// Package excel exporta vistas de inventario a hojas .xlsx con excelize.
package excel

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
)

var _ inventory.SheetExporter = (*SheetExporter)(nil)

var statusLabels = map[string]string{
	entity.StockStatusOK:  "OK",
	entity.StockStatusLow: "Bajo",
	entity.StockStatusOut: "Agotado",
}

// SheetExporter implementa inventory.SheetExporter.
type SheetExporter struct{}

// NewSheetExporter construye el exportador.
func NewSheetExporter() *SheetExporter { return &SheetExporter{} }

// StockReport una fila por ítem con cantidad, mínimos, estado y valorización. La última fila suma el valor.
func (e *SheetExporter) StockReport(levels []dto.StockLevelResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Stock"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	header := []any{"SKU", "Ítem", "Unidad", "Categoría", "Área", "Cantidad", "Mínimo", "Máximo", "Estado", "Costo", "Valor"}
	if err := writeHeader(f, sheet, header); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for i, l := range levels {
		total = total.Add(l.Value)
		values := []any{
			l.SKU, l.ItemName, l.BaseUnit, l.CategoryName, l.StorageAreaName,
			num(l.Quantity), num(l.MinStock), num(l.MaxStock), statusLabels[l.Status], num(l.Cost), num(l.Value),
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return nil, err
		}
	}
	last := len(levels) + 2
	if err := writeRow(f, sheet, last, []any{"", "TOTAL", "", "", "", "", "", "", "", "", num(total)}); err != nil {
		return nil, err
	}
	if err := highlightLow(f, sheet, levels); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(sheet, "B", "B", 32)
	_ = f.SetColWidth(sheet, "D", "E", 18)
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
	return toBytes(f)
}

// CountSheet hoja de conteo físico: esperado, contado (vacío si falta) y diferencia.
func (e *SheetExporter) CountSheet(count *dto.CountResponse) ([]byte, error) {
	if count == nil {
		return nil, fmt.Errorf("excel: conteo nulo")
	}
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Conteo"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	if err := writeRow(f, sheet, 1, []any{"Conteo", count.ID, "Estado", count.Status, "Fecha", count.CreatedAt.Format(dto.DateLayout)}); err != nil {
		return nil, err
	}
	header := []any{"SKU", "Ítem", "Unidad", "Esperado", "Contado", "Diferencia"}
	cell, _ := excelize.CoordinatesToCellName(1, 3)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return nil, fmt.Errorf("excel: encabezado: %w", err)
	}
	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A3", "F3", style)

	for i, d := range count.Details {
		var counted any
		if d.CountedQuantity != nil {
			counted = num(*d.CountedQuantity)
		}
		values := []any{d.SKU, d.ItemName, d.BaseUnit, num(d.ExpectedQuantity), counted, num(d.Difference)}
		if err := writeRow(f, sheet, i+4, values); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 32)
	return toBytes(f)
}

func writeHeader(f *excelize.File, sheet string, header []any) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return err
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", end, style)
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("excel: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("excel: fila %d: %w", rowNum, err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"78481C"}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("excel: estilo: %w", err)
	}
	return style, nil
}

// highlightLow pinta la columna de estado de los ítems bajo mínimo o agotados.
func highlightLow(f *excelize.File, sheet string, levels []dto.StockLevelResponse) error {
	warn, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"F8CBAD"}, Pattern: 1}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	for i, l := range levels {
		if l.Status == entity.StockStatusOK {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(9, i+2)
		if err := f.SetCellStyle(sheet, cell, cell, warn); err != nil {
			return fmt.Errorf("excel: estilo: %w", err)
		}
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}

func toBytes(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
