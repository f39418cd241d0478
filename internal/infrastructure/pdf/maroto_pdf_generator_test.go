package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/pdf"
)

func TestGenerateOrderPDF(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator("Panadería La Espiga")
	order := &dto.OrderResponse{
		ID:        "3f2a9c1e-0000-0000-0000-000000000001",
		Status:    entity.OrderStatusSent,
		OrderDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Total:     decimal.NewFromInt(125000),
		Details: []dto.OrderDetailResponse{{
			ItemName: "Harina de trigo", PresentationName: "Bulto 50 kg",
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(62500),
			ConversionFactor: decimal.NewFromInt(50), Subtotal: decimal.NewFromInt(125000),
		}},
	}
	supplier := &entity.Supplier{Name: "Molinos del Sur", LeadTimeDays: 2}

	out, err := g.GenerateOrderPDF(context.Background(), order, supplier)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateOrderPDF_SinProveedor(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator("x").GenerateOrderPDF(context.Background(), &dto.OrderResponse{}, nil)
	assert.Error(t, err)
}
