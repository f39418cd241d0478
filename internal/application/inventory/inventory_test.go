package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(offset int) *time.Time {
	t := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, offset)
	return &t
}

func newItem(t *testing.T, s *memory.Store, sku string, perishableDays int) *entity.Item {
	t.Helper()
	it := &entity.Item{
		ID:            sku + "-id",
		SKU:           sku,
		Name:          "Ítem " + sku,
		BaseUnit:      entity.UnitKilogram,
		MinStock:      d("10"),
		Cost:          decimal.Zero,
		IsPerishable:  perishableDays > 0,
		ShelfLifeDays: perishableDays,
		Active:        true,
	}
	require.NoError(t, s.Repositories().Items.Create(context.Background(), it))
	return it
}

func receive(t *testing.T, s *memory.Store, itemID, qty, cost string, exp *time.Time) *entity.ItemBatch {
	t.Helper()
	var b *entity.ItemBatch
	err := s.Run(context.Background(), func(repos repository.Repositories) error {
		var err error
		b, err = appinventory.Inbound(context.Background(), repos, appinventory.InboundInput{
			ItemID:         itemID,
			Quantity:       d(qty),
			UnitCost:       d(cost),
			ExpirationDate: exp,
			MovementType:   entity.MovementTypeInPurchase,
			SourceType:     entity.BatchSourcePurchase,
		})
		return err
	})
	require.NoError(t, err)
	return b
}

func stockOf(t *testing.T, s *memory.Store, itemID string) decimal.Decimal {
	t.Helper()
	st, err := s.Repositories().Stock.Get(context.Background(), itemID)
	require.NoError(t, err)
	return st.Quantity
}

func TestInbound_CostoPromedioPonderado(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "HAR", 0)
	receive(t, s, it.ID, "10", "2", nil)
	receive(t, s, it.ID, "10", "4", nil)

	got, err := s.Repositories().Items.GetByID(context.Background(), it.ID)
	require.NoError(t, err)
	assert.True(t, got.Cost.Equal(d("3")), "costo %s", got.Cost)
	assert.True(t, stockOf(t, s, it.ID).Equal(d("20")))
}

func TestInbound_VencimientoPorVidaUtil(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "LEC", 5)
	b := receive(t, s, it.ID, "3", "1", nil)
	require.NotNil(t, b.ExpirationDate)
	assert.Equal(t, day(5).Format(dto.DateLayout), b.ExpirationDate.Format(dto.DateLayout))
}

func TestOutbound_ConsumeFEFO(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "HUE", 0)
	late := receive(t, s, it.ID, "5", "1", day(10))
	early := receive(t, s, it.ID, "5", "1", day(2))

	var res *appinventory.OutboundResult
	err := s.Run(context.Background(), func(repos repository.Repositories) error {
		var err error
		res, err = appinventory.Outbound(context.Background(), repos, appinventory.OutboundInput{
			ItemID:       it.ID,
			Quantity:     d("7"),
			MovementType: entity.MovementTypeOutLoss,
		})
		return err
	})
	require.NoError(t, err)
	require.Len(t, res.Allocations, 2)
	assert.Equal(t, early.ID, res.Allocations[0].Batch.ID)
	assert.True(t, res.Allocations[0].Quantity.Equal(d("5")))
	assert.Equal(t, late.ID, res.Allocations[1].Batch.ID)

	b, err := s.Repositories().Batches.GetByID(context.Background(), late.ID)
	require.NoError(t, err)
	assert.True(t, b.Remaining.Equal(d("3")))
	assert.True(t, stockOf(t, s, it.ID).Equal(d("3")))
}

func TestOutbound_StockInsuficiente(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "AZU", 0)
	receive(t, s, it.ID, "2", "1", nil)

	err := s.Run(context.Background(), func(repos repository.Repositories) error {
		_, err := appinventory.Outbound(context.Background(), repos, appinventory.OutboundInput{
			ItemID: it.ID, Quantity: d("3"), MovementType: entity.MovementTypeOutLoss,
		})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, s, it.ID).Equal(d("2")))
}

func TestStockUseCase_AjustePositivoYNegativo(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "SAL", 0)
	uc := appinventory.NewStockUseCase(s.Repositories(), s, nil, logger.Nop())
	ctx := context.Background()

	cost := d("1.5")
	lvl, err := uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ItemID: it.ID, Quantity: d("4"), UnitCost: &cost, Reason: "carga inicial"})
	require.NoError(t, err)
	assert.True(t, lvl.Quantity.Equal(d("4")))
	assert.Equal(t, entity.StockStatusLow, lvl.Status)

	lvl, err = uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ItemID: it.ID, Quantity: d("-1"), Reason: "derrame"})
	require.NoError(t, err)
	assert.True(t, lvl.Quantity.Equal(d("3")))
	assert.True(t, lvl.Value.Equal(d("4.5")))

	_, err = uc.Adjust(ctx, "u1", dto.AdjustmentRequest{ItemID: it.ID, Quantity: d("-10"), Reason: "error"})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	movs, err := uc.Movements(ctx, entity.MovementFilter{ItemID: it.ID, Type: entity.MovementTypeAdjustment})
	require.NoError(t, err)
	assert.Len(t, movs, 2)
}

func TestStockUseCase_AjusteInvalido(t *testing.T) {
	s := memory.NewStore()
	uc := appinventory.NewStockUseCase(s.Repositories(), s, nil, logger.Nop())
	_, err := uc.Adjust(context.Background(), "u1", dto.AdjustmentRequest{ItemID: "x", Quantity: decimal.Zero, Reason: "r"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Adjust(context.Background(), "u1", dto.AdjustmentRequest{ItemID: "x", Quantity: d("1"), Reason: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockUseCase_FiltroPorEstado(t *testing.T) {
	s := memory.NewStore()
	a := newItem(t, s, "A", 0)
	newItem(t, s, "B", 0)
	receive(t, s, a.ID, "50", "1", nil)
	uc := appinventory.NewStockUseCase(s.Repositories(), s, nil, logger.Nop())

	out, err := uc.Levels(context.Background(), dto.StockFilter{Status: entity.StockStatusOut})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].SKU)

	_, err = uc.Levels(context.Background(), dto.StockFilter{Status: "raro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductionUseCase_ConsumeInsumosYCreaLote(t *testing.T) {
	s := memory.NewStore()
	flour := newItem(t, s, "HAR", 0)
	butter := newItem(t, s, "MAN", 0)
	bread := newItem(t, s, "PAN", 2)
	receive(t, s, flour.ID, "10", "2", nil)
	receive(t, s, butter.ID, "5", "8", nil)
	uc := appinventory.NewProductionUseCase(s.Repositories(), s, logger.Nop())

	ev, err := uc.Create(context.Background(), "u1", dto.CreateProductionEventRequest{
		ProductItemID: bread.ID,
		Quantity:      d("20"),
		Ingredients: []dto.ProductionIngredientRequest{
			{ItemID: flour.ID, Quantity: d("4")},
			{ItemID: butter.ID, Quantity: d("1")},
		},
	})
	require.NoError(t, err)
	assert.True(t, ev.TotalCost.Equal(d("16")), "total %s", ev.TotalCost)
	assert.True(t, ev.UnitCost.Equal(d("0.8")), "unitario %s", ev.UnitCost)
	assert.NotEmpty(t, ev.BatchID)
	assert.Len(t, ev.Ingredients, 2)

	assert.True(t, stockOf(t, s, flour.ID).Equal(d("6")))
	assert.True(t, stockOf(t, s, bread.ID).Equal(d("20")))
	b, err := s.Repositories().Batches.GetByID(context.Background(), ev.BatchID)
	require.NoError(t, err)
	require.NotNil(t, b.ExpirationDate)
	assert.Equal(t, entity.BatchSourceProduction, b.SourceType)

	got, err := uc.GetByID(context.Background(), ev.ID)
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)
}

func TestProductionUseCase_InsumoInsuficienteNoPersisteNada(t *testing.T) {
	s := memory.NewStore()
	flour := newItem(t, s, "HAR", 0)
	sugar := newItem(t, s, "AZU", 0)
	bread := newItem(t, s, "PAN", 0)
	receive(t, s, flour.ID, "10", "2", nil)
	receive(t, s, sugar.ID, "1", "3", nil)
	uc := appinventory.NewProductionUseCase(s.Repositories(), s, logger.Nop())

	_, err := uc.Create(context.Background(), "u1", dto.CreateProductionEventRequest{
		ProductItemID: bread.ID,
		Quantity:      d("5"),
		Ingredients: []dto.ProductionIngredientRequest{
			{ItemID: flour.ID, Quantity: d("4")},
			{ItemID: sugar.ID, Quantity: d("2")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, stockOf(t, s, flour.ID).Equal(d("10")))
	assert.True(t, stockOf(t, s, bread.ID).IsZero())

	list, err := uc.List(context.Background(), nil, nil, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProductionUseCase_ProductoComoInsumo(t *testing.T) {
	s := memory.NewStore()
	uc := appinventory.NewProductionUseCase(s.Repositories(), s, logger.Nop())
	_, err := uc.Create(context.Background(), "u1", dto.CreateProductionEventRequest{
		ProductItemID: "pan",
		Quantity:      d("1"),
		Ingredients:   []dto.ProductionIngredientRequest{{ItemID: "pan", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLossUseCase_ConLoteYFEFO(t *testing.T) {
	s := memory.NewStore()
	milk := newItem(t, s, "LEC", 0)
	b1 := receive(t, s, milk.ID, "4", "2", day(1))
	b2 := receive(t, s, milk.ID, "4", "2", day(6))
	uc := appinventory.NewLossUseCase(s.Repositories(), s, logger.Nop())

	ev, err := uc.Create(context.Background(), "u1", dto.CreateLossEventRequest{
		Reason: entity.LossReasonDamaged,
		Details: []dto.LossDetailRequest{
			{ItemID: milk.ID, BatchID: b2.ID, Quantity: d("1")},
			{ItemID: milk.ID, Quantity: d("2")},
		},
	})
	require.NoError(t, err)
	require.Len(t, ev.Details, 2)
	assert.Equal(t, b2.ID, ev.Details[0].BatchID)
	assert.Equal(t, b1.ID, ev.Details[1].BatchID)
	assert.True(t, ev.TotalCost.Equal(d("6")))
	assert.True(t, stockOf(t, s, milk.ID).Equal(d("5")))

	list, err := uc.List(context.Background(), entity.LossFilter{Reason: entity.LossReasonDamaged})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.Create(context.Background(), "u1", dto.CreateLossEventRequest{
		Reason:  "robo-de-gato",
		Details: []dto.LossDetailRequest{{ItemID: milk.ID, Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCountUseCase_CierreAjustaAlContado(t *testing.T) {
	s := memory.NewStore()
	flour := newItem(t, s, "HAR", 0)
	sugar := newItem(t, s, "AZU", 0)
	salt := newItem(t, s, "SAL", 0)
	receive(t, s, flour.ID, "10", "2", nil)
	receive(t, s, sugar.ID, "5", "1", nil)
	uc := appinventory.NewCountUseCase(s.Repositories(), s, nil, logger.Nop())
	ctx := context.Background()

	count, err := uc.Open(ctx, "u1", dto.CreateCountRequest{Notes: "mensual"})
	require.NoError(t, err)
	require.Len(t, count.Details, 3)

	lines := map[string]string{}
	for _, det := range count.Details {
		lines[det.ItemID] = det.ID
	}
	_, err = uc.UpdateDetail(ctx, count.ID, lines[flour.ID], dto.UpdateCountDetailRequest{CountedQuantity: d("8")})
	require.NoError(t, err)
	_, err = uc.UpdateDetail(ctx, count.ID, lines[salt.ID], dto.UpdateCountDetailRequest{CountedQuantity: d("2")})
	require.NoError(t, err)

	closed, err := uc.Close(ctx, "u1", count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusClosed, closed.Status)
	assert.Equal(t, 2, closed.Adjustments)
	assert.True(t, stockOf(t, s, flour.ID).Equal(d("8")))
	assert.True(t, stockOf(t, s, salt.ID).Equal(d("2")))
	assert.True(t, stockOf(t, s, sugar.ID).Equal(d("5")), "las líneas sin contar no se ajustan")

	_, err = uc.Close(ctx, "u1", count.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.UpdateDetail(ctx, count.ID, lines[sugar.ID], dto.UpdateCountDetailRequest{CountedQuantity: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCountUseCase_Cancelar(t *testing.T) {
	s := memory.NewStore()
	it := newItem(t, s, "HAR", 0)
	receive(t, s, it.ID, "3", "1", nil)
	uc := appinventory.NewCountUseCase(s.Repositories(), s, nil, logger.Nop())
	ctx := context.Background()

	count, err := uc.Open(ctx, "u1", dto.CreateCountRequest{})
	require.NoError(t, err)
	_, err = uc.UpdateDetail(ctx, count.ID, count.Details[0].ID, dto.UpdateCountDetailRequest{CountedQuantity: d("0")})
	require.NoError(t, err)
	cancelled, err := uc.Cancel(ctx, count.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CountStatusCancelled, cancelled.Status)
	assert.True(t, stockOf(t, s, it.ID).Equal(d("3")))

	list, err := uc.List(ctx, entity.CountStatusCancelled, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCountUseCase_CantidadNegativa(t *testing.T) {
	s := memory.NewStore()
	uc := appinventory.NewCountUseCase(s.Repositories(), s, nil, logger.Nop())
	_, err := uc.UpdateDetail(context.Background(), "c", "d", dto.UpdateCountDetailRequest{CountedQuantity: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
