package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/analytics"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func TestGetSummary_AgregaStockMermasYPedidos(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()

	for _, it := range []*entity.Item{
		{ID: "a", SKU: "A", Name: "Harina", BaseUnit: entity.UnitKilogram, MinStock: decimal.NewFromInt(10), Active: true},
		{ID: "b", SKU: "B", Name: "Azúcar", BaseUnit: entity.UnitKilogram, MinStock: decimal.NewFromInt(10), Active: true},
		{ID: "c", SKU: "C", Name: "Sal", BaseUnit: entity.UnitKilogram, MinStock: decimal.NewFromInt(1), Active: true},
	} {
		require.NoError(t, repos.Items.Create(ctx, it))
	}
	for id, qty := range map[string]int64{"a": 50, "b": 2} {
		err := s.Run(ctx, func(tx repository.Repositories) error {
			_, err := appinventory.Inbound(ctx, tx, appinventory.InboundInput{
				ItemID:       id,
				Quantity:     decimal.NewFromInt(qty),
				UnitCost:     decimal.NewFromInt(2),
				MovementType: entity.MovementTypeInPurchase,
				SourceType:   entity.BatchSourcePurchase,
			})
			return err
		})
		require.NoError(t, err)
	}

	losses := appinventory.NewLossUseCase(repos, s, logger.Nop())
	_, err := losses.Create(ctx, "u1", dto.CreateLossEventRequest{
		Reason:  entity.LossReasonDamaged,
		Details: []dto.LossDetailRequest{{ItemID: "a", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Name: "Molino", Active: true}))
	now := time.Now()
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{
		ID: "o1", SupplierID: "s1", Status: entity.OrderStatusDraft, OrderDate: now, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repos.Orders.Create(ctx, &entity.Order{
		ID: "o2", SupplierID: "s1", Status: entity.OrderStatusReceived, OrderDate: now, CreatedAt: now, UpdatedAt: now,
	}))

	summary, err := analytics.NewDashboardUseCase(repos).GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, 1, summary.OutOfStockCount)
	assert.True(t, summary.InventoryValue.Equal(decimal.NewFromInt(102)), "valor %s", summary.InventoryValue)
	assert.Equal(t, 1, summary.OpenOrders)
	assert.True(t, summary.LossValue30d.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 0, summary.ProductionCount)
	assert.Equal(t, 0, summary.PendingAlerts[entity.SeverityCritical])
	require.Len(t, summary.LowStockItems, 1)
	assert.Equal(t, "B", summary.LowStockItems[0].SKU)

	require.Len(t, summary.DailyLosses, 30)
	last := summary.DailyLosses[len(summary.DailyLosses)-1]
	assert.Equal(t, now.UTC().Format(dto.DateLayout), last.Date)
	assert.True(t, last.Value.Equal(decimal.NewFromInt(2)))
}

func TestGetSummary_SerieDiariaEnUTC(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{ID: "a", SKU: "A", Name: "Harina", BaseUnit: entity.UnitKilogram, Active: true}))
	err := s.Run(ctx, func(tx repository.Repositories) error {
		_, err := appinventory.Inbound(ctx, tx, appinventory.InboundInput{
			ItemID:       "a",
			Quantity:     decimal.NewFromInt(10),
			UnitCost:     decimal.NewFromInt(3),
			MovementType: entity.MovementTypeInPurchase,
			SourceType:   entity.BatchSourcePurchase,
		})
		return err
	})
	require.NoError(t, err)

	_, err = appinventory.NewLossUseCase(repos, s, logger.Nop()).Create(ctx, "u1", dto.CreateLossEventRequest{
		Reason:  entity.LossReasonDamaged,
		Date:    "2026-03-10",
		Details: []dto.LossDetailRequest{{ItemID: "a", Quantity: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	// 22:00 del 9 en UTC-5 ya es el 10 en UTC.
	bogota := time.FixedZone("COT", -5*3600)
	uc := analytics.NewDashboardUseCase(repos)
	uc.SetClock(func() time.Time { return time.Date(2026, 3, 9, 22, 0, 0, 0, bogota) })

	summary, err := uc.GetSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.DailyLosses, 30)
	last := summary.DailyLosses[len(summary.DailyLosses)-1]
	assert.Equal(t, "2026-03-10", last.Date)
	assert.True(t, last.Value.Equal(decimal.NewFromInt(3)), "valor %s", last.Value)
	assert.Equal(t, "2026-02-09", summary.DailyLosses[0].Date)
}
