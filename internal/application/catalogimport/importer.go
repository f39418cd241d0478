// Package catalogimport carga ítems, categorías, áreas y proveedores desde una planilla CSV.
//
// Columnas reconocidas (encabezado obligatorio, orden libre):
//
//	sku, nombre, unidad, categoria, area, proveedor, stock_minimo, stock_maximo, perecedero, vida_util_dias
//
// Solo sku, nombre y unidad son obligatorias. Categorías, áreas y proveedores se crean por nombre
// si no existen. Un SKU ya registrado se omite, así la importación puede repetirse.
package catalogimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

// Codificaciones aceptadas.
const (
	EncodingAuto   = "auto"
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "iso-8859-1"
)

// RowError fila rechazada u omitida.
type RowError struct {
	Line   int    `json:"line"`
	SKU    string `json:"sku,omitempty"`
	Reason string `json:"reason"`
}

// Result resumen de la importación.
type Result struct {
	Categories   int        `json:"categories"`
	StorageAreas int        `json:"storage_areas"`
	Suppliers    int        `json:"suppliers"`
	Items        int        `json:"items"`
	Skipped      []RowError `json:"skipped,omitempty"`
}

// Importer usa los casos de uso del catálogo para que las validaciones sean las mismas que en la API.
type Importer struct {
	catalog   *usecase.CatalogUseCase
	suppliers *usecase.SupplierUseCase
	items     *usecase.ItemUseCase
	log       *logger.Logger
}

// NewImporter construye el importador.
func NewImporter(catalog *usecase.CatalogUseCase, suppliers *usecase.SupplierUseCase, items *usecase.ItemUseCase, log *logger.Logger) *Importer {
	return &Importer{catalog: catalog, suppliers: suppliers, items: items, log: log}
}

// Decode devuelve un lector UTF-8. En modo auto, un contenido que no es UTF-8 válido se trata como ISO-8859-1.
func Decode(data []byte, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingAuto:
		if utf8.Valid(data) {
			return bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)), nil
		}
		return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder()), nil
	case EncodingUTF8, "utf8":
		return bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)), nil
	case EncodingLatin1, "latin1", "iso8859-1":
		return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("codificación %q no soportada", encoding)
	}
}

var utf8BOM = []byte("\xef\xbb\xbf")

type lookup map[string]string

func (l lookup) key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Import lee el CSV y crea lo que falte. Los errores por fila no detienen la importación.
func (im *Importer) Import(ctx context.Context, data []byte, encoding string) (*Result, error) {
	r, err := Decode(data, encoding)
	if err != nil {
		return nil, err
	}
	utf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	comma := detectDelimiter(utf)
	reader := csv.NewReader(bytes.NewReader(utf))
	reader.Comma = comma
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"sku", "nombre", "unidad"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("falta la columna %q: %w", required, domain.ErrInvalidInput)
		}
	}

	categories, areas, suppliers, err := im.load(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}
		sku := get("sku")
		if sku == "" && get("nombre") == "" {
			continue
		}

		in := dto.CreateItemRequest{SKU: sku, Name: get("nombre"), BaseUnit: get("unidad")}
		if in.MinStock, err = parseDecimal(get("stock_minimo"), comma); err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "stock_minimo: " + err.Error()})
			continue
		}
		if in.MaxStock, err = parseDecimal(get("stock_maximo"), comma); err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "stock_maximo: " + err.Error()})
			continue
		}
		in.IsPerishable = parseBool(get("perecedero"))
		if v := get("vida_util_dias"); v != "" {
			if in.ShelfLifeDays, err = strconv.Atoi(v); err != nil {
				res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "vida_util_dias inválido"})
				continue
			}
		}

		if name := get("categoria"); name != "" {
			id, created, err := im.ensure(categories, name, func() (string, error) {
				c, err := im.catalog.CreateCategory(ctx, dto.CatalogRequest{Name: name})
				if err != nil {
					return "", err
				}
				return c.ID, nil
			})
			if err != nil {
				res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "categoría: " + err.Error()})
				continue
			}
			if created {
				res.Categories++
			}
			in.CategoryID = id
		}
		if name := get("area"); name != "" {
			id, created, err := im.ensure(areas, name, func() (string, error) {
				a, err := im.catalog.CreateStorageArea(ctx, dto.CatalogRequest{Name: name})
				if err != nil {
					return "", err
				}
				return a.ID, nil
			})
			if err != nil {
				res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "área: " + err.Error()})
				continue
			}
			if created {
				res.StorageAreas++
			}
			in.StorageAreaID = id
		}
		if name := get("proveedor"); name != "" {
			id, created, err := im.ensure(suppliers, name, func() (string, error) {
				s, err := im.suppliers.Create(ctx, dto.SupplierRequest{Name: name})
				if err != nil {
					return "", err
				}
				return s.ID, nil
			})
			if err != nil {
				res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: "proveedor: " + err.Error()})
				continue
			}
			if created {
				res.Suppliers++
			}
			in.DefaultSupplierID = id
		}

		if _, err := im.items.Create(ctx, in); err != nil {
			reason := err.Error()
			if errors.Is(err, domain.ErrDuplicate) {
				reason = "SKU ya registrado"
			} else if !errors.Is(err, domain.ErrInvalidInput) {
				return res, fmt.Errorf("línea %d: %w", line, err)
			}
			res.Skipped = append(res.Skipped, RowError{Line: line, SKU: sku, Reason: reason})
			continue
		}
		res.Items++
	}

	im.log.Info().
		Int("items", res.Items).
		Int("categories", res.Categories).
		Int("storage_areas", res.StorageAreas).
		Int("suppliers", res.Suppliers).
		Int("skipped", len(res.Skipped)).
		Msg("importación de catálogo terminada")
	return res, nil
}

func (im *Importer) load(ctx context.Context) (categories, areas, suppliers lookup, err error) {
	categories, areas, suppliers = lookup{}, lookup{}, lookup{}
	cats, err := im.catalog.ListCategories(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, c := range cats {
		categories[categories.key(c.Name)] = c.ID
	}
	as, err := im.catalog.ListStorageAreas(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, a := range as {
		areas[areas.key(a.Name)] = a.ID
	}
	sups, err := im.suppliers.List(ctx, false)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, s := range sups {
		suppliers[suppliers.key(s.Name)] = s.ID
	}
	return categories, areas, suppliers, nil
}

func (im *Importer) ensure(l lookup, name string, create func() (string, error)) (id string, created bool, err error) {
	if id, ok := l[l.key(name)]; ok {
		return id, false, nil
	}
	id, err = create()
	if err != nil {
		return "", false, err
	}
	l[l.key(name)] = id
	return id, true, nil
}

// detectDelimiter usa ';' cuando el encabezado lo contiene y no tiene comas (exportación regional de Excel).
func detectDelimiter(data []byte) rune {
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	if bytes.ContainsRune(first, ';') && !bytes.ContainsRune(first, ',') {
		return ';'
	}
	return ','
}

// parseDecimal admite coma decimal cuando el separador de campos es ';'.
func parseDecimal(s string, comma rune) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if comma == ';' {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "si", "sí", "s", "true", "x", "yes":
		return true
	}
	return false
}
