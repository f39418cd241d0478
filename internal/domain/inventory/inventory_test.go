package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(y int, m time.Month, day int) *time.Time {
	t := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 kg a 2000 + 30 kg a 3000 = 2750
	got := inventory.WeightedAverageCost(d("10"), d("2000"), d("30"), d("3000"))
	assert.True(t, got.Equal(d("2750")), got.String())

	// Sin stock previo el costo de la entrada manda
	got = inventory.WeightedAverageCost(decimal.Zero, d("999"), d("5"), d("1200"))
	assert.True(t, got.Equal(d("1200")))
}

func TestUnitCost(t *testing.T) {
	assert.True(t, inventory.UnitCost(d("100"), d("4")).Equal(d("25")))
	assert.True(t, inventory.UnitCost(d("100"), decimal.Zero).IsZero())
}

func TestSortFEFO(t *testing.T) {
	now := time.Now()
	sinVencimiento := &entity.ItemBatch{ID: "sin", ReceivedAt: now}
	tarde := &entity.ItemBatch{ID: "tarde", ExpirationDate: date(2026, 5, 20), ReceivedAt: now}
	pronto := &entity.ItemBatch{ID: "pronto", ExpirationDate: date(2026, 5, 10), ReceivedAt: now}

	batches := []*entity.ItemBatch{sinVencimiento, tarde, pronto}
	inventory.SortFEFO(batches)

	assert.Equal(t, []string{"pronto", "tarde", "sin"}, []string{batches[0].ID, batches[1].ID, batches[2].ID})
}

func TestAllocateFEFO(t *testing.T) {
	b1 := &entity.ItemBatch{ID: "b1", Remaining: d("3")}
	b2 := &entity.ItemBatch{ID: "b2", Remaining: d("5")}

	t.Run("cubre con dos lotes", func(t *testing.T) {
		alloc, pending := inventory.AllocateFEFO([]*entity.ItemBatch{b1, b2}, d("4"))
		require.Len(t, alloc, 2)
		assert.True(t, alloc[0].Quantity.Equal(d("3")))
		assert.True(t, alloc[1].Quantity.Equal(d("1")))
		assert.True(t, pending.IsZero())
		// no muta los lotes
		assert.True(t, b1.Remaining.Equal(d("3")))
	})

	t.Run("faltante", func(t *testing.T) {
		_, pending := inventory.AllocateFEFO([]*entity.ItemBatch{b1, b2}, d("10"))
		assert.True(t, pending.Equal(d("2")))
	})
}

func TestStockStatus(t *testing.T) {
	assert.Equal(t, entity.StockStatusOut, inventory.StockStatus(decimal.Zero, d("5")))
	assert.Equal(t, entity.StockStatusLow, inventory.StockStatus(d("2"), d("5")))
	assert.Equal(t, entity.StockStatusOK, inventory.StockStatus(d("5"), d("5")))
}

func TestTargetStockYPresentaciones(t *testing.T) {
	assert.True(t, inventory.TargetStock(d("10"), d("40"), d("1.5")).Equal(d("40")))
	assert.True(t, inventory.TargetStock(d("10"), decimal.Zero, d("1.5")).Equal(d("15")))

	// 26 kg en bultos de 25 kg = 2 bultos
	assert.True(t, inventory.PresentationsNeeded(d("26"), d("25")).Equal(d("2")))
	assert.True(t, inventory.PresentationsNeeded(d("25"), d("25")).Equal(d("1")))
	assert.True(t, inventory.PresentationsNeeded(decimal.Zero, d("25")).IsZero())
}

func TestExpirationSeverity(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 30, 0, 0, time.UTC)
	cases := []struct {
		name string
		exp  time.Time
		want string
		ok   bool
	}{
		{"vencido ayer", *date(2026, 5, 9), entity.SeverityExpired, true},
		{"vence hoy", *date(2026, 5, 10), entity.SeverityCritical, true},
		{"vence mañana", *date(2026, 5, 11), entity.SeverityCritical, true},
		{"vence en 3 días", *date(2026, 5, 13), entity.SeverityWarning, true},
		{"vence en 4 días", *date(2026, 5, 14), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := inventory.ExpirationSeverity(tc.exp, now, 3, 1)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExpirationFor(t *testing.T) {
	item := &entity.Item{IsPerishable: true, ShelfLifeDays: 2}
	exp := inventory.ExpirationFor(item, time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC))
	require.NotNil(t, exp)
	assert.Equal(t, *date(2026, 5, 12), *exp)

	assert.Nil(t, inventory.ExpirationFor(&entity.Item{}, time.Now()))
}
