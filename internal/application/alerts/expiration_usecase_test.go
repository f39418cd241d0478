package alerts_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/alerts"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	appinventory "github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func day(offset int) *time.Time {
	y, m, d := time.Now().UTC().Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &t
}

// seed crea un ítem con cuatro lotes de 2 unidades: vencido, a 1 día, a 5 días y a 30 días.
func seed(t *testing.T) (*memory.Store, *entity.Item, map[int]*entity.ItemBatch) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	item := &entity.Item{ID: "item-lec", SKU: "LEC", Name: "Leche", BaseUnit: entity.UnitLiter, IsPerishable: true, ShelfLifeDays: 7, Active: true}
	require.NoError(t, s.Repositories().Items.Create(ctx, item))

	batches := map[int]*entity.ItemBatch{}
	for _, offset := range []int{-1, 1, 5, 30} {
		err := s.Run(ctx, func(repos repository.Repositories) error {
			b, err := appinventory.Inbound(ctx, repos, appinventory.InboundInput{
				ItemID:         item.ID,
				Quantity:       decimal.NewFromInt(2),
				UnitCost:       decimal.NewFromInt(3),
				ExpirationDate: day(offset),
				MovementType:   entity.MovementTypeInPurchase,
				SourceType:     entity.BatchSourcePurchase,
			})
			batches[offset] = b
			return err
		})
		require.NoError(t, err)
	}
	return s, item, batches
}

func alertFor(t *testing.T, uc *alerts.ExpirationUseCase, batchID string) dto.ExpirationAlertResponse {
	t.Helper()
	list, err := uc.List(context.Background(), entity.AlertFilter{Limit: 100})
	require.NoError(t, err)
	for _, a := range list {
		if a.BatchID == batchID {
			return a
		}
	}
	t.Fatalf("sin alerta para el lote %s", batchID)
	return dto.ExpirationAlertResponse{}
}

func TestScan_CreaUnaAlertaPorLoteEnVentana(t *testing.T) {
	s, _, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()

	res, err := uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)

	assert.Equal(t, entity.SeverityExpired, alertFor(t, uc, batches[-1].ID).Severity)
	assert.Equal(t, entity.SeverityCritical, alertFor(t, uc, batches[1].ID).Severity)
	warn := alertFor(t, uc, batches[5].ID)
	assert.Equal(t, entity.SeverityWarning, warn.Severity)
	assert.Equal(t, "Leche", warn.ItemName)

	again, err := uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Created)
	assert.Equal(t, 0, again.Updated)

	critical, err := uc.List(ctx, entity.AlertFilter{Severity: entity.SeverityCritical})
	require.NoError(t, err)
	assert.Len(t, critical, 1)

	_, err = uc.List(ctx, entity.AlertFilter{Status: "abierta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResolve_DescartarRegistraMerma(t *testing.T) {
	s, item, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()
	_, err := uc.Scan(ctx)
	require.NoError(t, err)

	a := alertFor(t, uc, batches[-1].ID)
	res, err := uc.Resolve(ctx, "u1", a.ID, dto.ResolveAlertRequest{Action: entity.AlertActionDiscard, Notes: "olor"})
	require.NoError(t, err)
	assert.Equal(t, entity.AlertStatusResolved, res.Status)
	assert.Equal(t, entity.AlertActionDiscard, res.Resolution)
	require.NotEmpty(t, res.LossEventID)

	loss, err := s.Repositories().Losses.GetByID(ctx, res.LossEventID)
	require.NoError(t, err)
	require.NotNil(t, loss)
	assert.Equal(t, entity.LossReasonExpired, loss.Reason)
	assert.Equal(t, "Descarte por vencimiento. olor", loss.Notes)
	require.Len(t, loss.Details, 1)
	assert.Equal(t, batches[-1].ID, loss.Details[0].BatchID)

	b, err := s.Repositories().Batches.GetByID(ctx, batches[-1].ID)
	require.NoError(t, err)
	assert.True(t, b.Remaining.IsZero())
	st, err := s.Repositories().Stock.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(decimal.NewFromInt(6)))

	_, err = uc.Resolve(ctx, "u1", a.ID, dto.ResolveAlertRequest{Action: entity.AlertActionUse})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestResolve_ExtenderMueveElVencimiento(t *testing.T) {
	s, _, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()
	_, err := uc.Scan(ctx)
	require.NoError(t, err)
	a := alertFor(t, uc, batches[1].ID)

	_, err = uc.Resolve(ctx, "u1", a.ID, dto.ResolveAlertRequest{Action: entity.AlertActionExtend})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "sin fecha nueva")
	_, err = uc.Resolve(ctx, "u1", a.ID, dto.ResolveAlertRequest{
		Action: entity.AlertActionExtend, NewExpirationDate: day(0).Format(dto.DateLayout),
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput, "fecha anterior al vencimiento")

	target := day(10).Format(dto.DateLayout)
	res, err := uc.Resolve(ctx, "u1", a.ID, dto.ResolveAlertRequest{Action: entity.AlertActionExtend, NewExpirationDate: target})
	require.NoError(t, err)
	assert.Equal(t, target, res.ExpirationDate)

	b, err := s.Repositories().Batches.GetByID(ctx, batches[1].ID)
	require.NoError(t, err)
	assert.Equal(t, target, dto.FormatDate(b.ExpirationDate))

	res2, err := uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Created, "el lote extendido sale de la ventana")
}

func TestResolve_AccionDesconocida(t *testing.T) {
	s := memory.NewStore()
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	_, err := uc.Resolve(context.Background(), "u1", "x", dto.ResolveAlertRequest{Action: "tirar"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Resolve(context.Background(), "u1", "x", dto.ResolveAlertRequest{Action: entity.AlertActionUse})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScan_RefrescaSeveridadConElPasoDeLosDias(t *testing.T) {
	s, _, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()
	_, err := uc.Scan(ctx)
	require.NoError(t, err)
	first := alertFor(t, uc, batches[5].ID)
	require.Equal(t, entity.SeverityWarning, first.Severity)

	uc.SetClock(func() time.Time { return time.Now().AddDate(0, 0, 4) })
	res, err := uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	assert.Equal(t, entity.SeverityExpired, alertFor(t, uc, batches[1].ID).Severity)
	again := alertFor(t, uc, batches[5].ID)
	assert.Equal(t, entity.SeverityCritical, again.Severity)
	assert.Equal(t, first.ID, again.ID, "se actualiza la misma alerta pendiente")
}

func TestOutbound_CierraLaAlertaDelLoteAgotado(t *testing.T) {
	s, item, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()
	_, err := uc.Scan(ctx)
	require.NoError(t, err)

	losses := appinventory.NewLossUseCase(s.Repositories(), s, logger.Nop())
	_, err = losses.Create(ctx, "u1", dto.CreateLossEventRequest{
		Reason:  entity.LossReasonExpired,
		Details: []dto.LossDetailRequest{{ItemID: item.ID, Quantity: decimal.NewFromInt(2)}},
	})
	require.NoError(t, err)

	closed := alertFor(t, uc, batches[-1].ID)
	assert.Equal(t, entity.AlertStatusResolved, closed.Status)
	assert.Equal(t, entity.AlertResolutionDepleted, closed.Resolution)
	assert.True(t, closed.Remaining.IsZero())

	pending, err := uc.List(ctx, entity.AlertFilter{Status: entity.AlertStatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = uc.Resolve(ctx, "u1", closed.ID, dto.ResolveAlertRequest{Action: entity.AlertActionUse})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestScan_CierraPendientesDeLotesSinSaldo(t *testing.T) {
	s, _, batches := seed(t)
	uc := alerts.NewExpirationUseCase(s.Repositories(), s, 7, 2, logger.Nop())
	ctx := context.Background()
	_, err := uc.Scan(ctx)
	require.NoError(t, err)

	b, err := s.Repositories().Batches.GetByID(ctx, batches[1].ID)
	require.NoError(t, err)
	b.Remaining = decimal.Zero
	require.NoError(t, s.Repositories().Batches.Update(ctx, b))

	res, err := uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Closed)
	assert.Equal(t, 0, res.Created)

	a := alertFor(t, uc, batches[1].ID)
	assert.Equal(t, entity.AlertStatusResolved, a.Status)
	assert.Equal(t, entity.AlertResolutionDepleted, a.Resolution)

	res, err = uc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Closed)
	assert.Equal(t, 0, res.Created)
}
