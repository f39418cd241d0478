package purchasing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/purchasing"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store    *memory.Store
	uc       *purchasing.OrderUseCase
	supplier *entity.Supplier
	flour    *entity.Item
	sack     *entity.Presentation
}

// newFixture: harina con mínimo 10 y máximo 50, bulto de 25 kg a 50 del proveedor habitual.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	f := &fixture{store: s}

	f.supplier = &entity.Supplier{ID: "sup-1", Name: "Molinos del Sur", LeadTimeDays: 3, Active: true}
	require.NoError(t, repos.Suppliers.Create(ctx, f.supplier))
	f.flour = &entity.Item{
		ID: "item-har", SKU: "HAR", Name: "Harina", BaseUnit: entity.UnitKilogram,
		MinStock: d("10"), MaxStock: d("50"), DefaultSupplierID: f.supplier.ID, Active: true,
	}
	require.NoError(t, repos.Items.Create(ctx, f.flour))
	f.sack = &entity.Presentation{
		ID: "pre-bulto", ItemID: f.flour.ID, SupplierID: f.supplier.ID, Name: "Bulto 25 kg", Unit: "bulto",
		ConversionFactor: d("25"), Price: d("50"), IsDefault: true, Active: true,
	}
	require.NoError(t, repos.Presentations.Create(ctx, f.sack))

	f.uc = purchasing.NewOrderUseCase(repos, s, nil, d("2"), logger.Nop())
	return f
}

func TestOrderUseCase_CicloCompletoConRecepcion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.uc.Create(ctx, "u1", dto.CreateOrderRequest{
		SupplierID: f.supplier.ID,
		Details:    []dto.OrderDetailRequest{{ItemID: f.flour.ID, PresentationID: f.sack.ID, Quantity: d("2")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusDraft, order.Status)
	assert.NotEmpty(t, order.ExpectedDate, "se completa con el tiempo de entrega")
	assert.True(t, order.Total.Equal(d("100")))

	_, err = f.uc.Receive(ctx, "u1", order.ID, dto.ReceiveOrderRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidState, "un borrador no se recibe")

	sent, err := f.uc.Send(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	_, err = f.uc.AddDetail(ctx, order.ID, dto.OrderDetailRequest{ItemID: f.flour.ID, PresentationID: f.sack.ID, Quantity: d("1")})
	require.ErrorIs(t, err, domain.ErrInvalidState, "solo los borradores se editan")

	received, err := f.uc.Receive(ctx, "u1", order.ID, dto.ReceiveOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusReceived, received.Status)
	require.Len(t, received.Details, 1)
	assert.True(t, received.Details[0].ReceivedQuantity.Equal(d("2")))

	st, err := f.store.Repositories().Stock.Get(ctx, f.flour.ID)
	require.NoError(t, err)
	assert.True(t, st.Quantity.Equal(d("50")))
	item, err := f.store.Repositories().Items.GetByID(ctx, f.flour.ID)
	require.NoError(t, err)
	assert.True(t, item.Cost.Equal(d("2")), "costo por kg %s", item.Cost)

	batches, err := f.store.Repositories().Batches.ListAvailable(ctx, f.flour.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, order.ID, batches[0].SourceID)

	_, err = f.uc.Cancel(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOrderUseCase_RecepcionParcialPorLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	order, err := f.uc.Create(ctx, "u1", dto.CreateOrderRequest{
		SupplierID: f.supplier.ID,
		Details:    []dto.OrderDetailRequest{{ItemID: f.flour.ID, PresentationID: f.sack.ID, Quantity: d("4")}},
	})
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, order.ID)
	require.NoError(t, err)

	received, err := f.uc.Receive(ctx, "u1", order.ID, dto.ReceiveOrderRequest{Lines: []dto.ReceiveLineRequest{
		{DetailID: order.Details[0].ID, ReceivedQuantity: d("1"), ExpirationDate: "2030-01-31", LotCode: "L-77"},
	}})
	require.NoError(t, err)
	assert.True(t, received.Details[0].ReceivedQuantity.Equal(d("1")))

	batches, err := f.store.Repositories().Batches.ListAvailable(ctx, f.flour.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.True(t, batches[0].Quantity.Equal(d("25")))
	assert.Equal(t, "L-77", batches[0].LotCode)
	assert.Equal(t, "2030-01-31", dto.FormatDate(batches[0].ExpirationDate))
}

func TestOrderUseCase_EnviarSinLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order, err := f.uc.Create(ctx, "u1", dto.CreateOrderRequest{SupplierID: f.supplier.ID})
	require.NoError(t, err)
	_, err = f.uc.Send(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderUseCase_ProveedorInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier.Active = false
	require.NoError(t, f.store.Repositories().Suppliers.Update(ctx, f.supplier))

	_, err := f.uc.Create(ctx, "u1", dto.CreateOrderRequest{SupplierID: f.supplier.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestOrderUseCase_LineaRepetida(t *testing.T) {
	f := newFixture(t)
	line := dto.OrderDetailRequest{ItemID: f.flour.ID, PresentationID: f.sack.ID, Quantity: d("1")}
	_, err := f.uc.Create(context.Background(), "u1", dto.CreateOrderRequest{
		SupplierID: f.supplier.ID,
		Details:    []dto.OrderDetailRequest{line, line},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestGenerateSuggested_EsIdempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repos := f.store.Repositories()
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{
		ID: "item-vai", SKU: "VAI", Name: "Vainilla", BaseUnit: entity.UnitMilliliter, MinStock: d("100"), Active: true,
	}))

	first, err := f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, first.Orders, 1)
	assert.True(t, first.Orders[0].Created)
	require.Len(t, first.Orders[0].Lines, 1)
	line := first.Orders[0].Lines[0]
	assert.True(t, line.Need.Equal(d("50")))
	assert.True(t, line.Quantity.Equal(d("2")))
	require.Len(t, first.Skipped, 1)
	assert.Equal(t, purchasing.SkipNoPresentation, first.Skipped[0].Reason)

	second, err := f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, second.Orders, 1)
	assert.False(t, second.Orders[0].Created)
	assert.Equal(t, first.Orders[0].OrderID, second.Orders[0].OrderID)
	assert.True(t, second.Orders[0].Total.Equal(first.Orders[0].Total))

	order, err := f.uc.GetByID(ctx, first.Orders[0].OrderID)
	require.NoError(t, err)
	assert.True(t, order.IsSuggested)
	require.Len(t, order.Details, 1, "las cantidades se reemplazan, no se acumulan")
	assert.True(t, order.Details[0].Quantity.Equal(d("2")))

	drafts, err := f.uc.List(ctx, entity.OrderFilter{Status: entity.OrderStatusDraft})
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestGenerateSuggested_ProveedorInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.supplier.Active = false
	require.NoError(t, f.store.Repositories().Suppliers.Update(ctx, f.supplier))

	res, err := f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, res.Orders)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, purchasing.SkipInactiveSupplier, res.Skipped[0].Reason)
}

func TestChoosePresentation(t *testing.T) {
	cheap := &entity.Presentation{ID: "a", SupplierID: "s2", ConversionFactor: d("10"), Price: d("10"), Active: true}
	pricey := &entity.Presentation{ID: "b", SupplierID: "s2", ConversionFactor: d("1"), Price: d("5"), Active: true}
	otherDefault := &entity.Presentation{ID: "c", SupplierID: "s3", ConversionFactor: d("1"), Price: d("9"), IsDefault: true, Active: true}
	mine := &entity.Presentation{ID: "d", SupplierID: "s1", ConversionFactor: d("1"), Price: d("9"), IsDefault: true, Active: true}
	inactive := &entity.Presentation{ID: "e", SupplierID: "s1", ConversionFactor: d("1"), Price: d("0.1"), Active: false}

	assert.Equal(t, "d", purchasing.ChoosePresentation([]*entity.Presentation{cheap, otherDefault, mine}, "s1").ID)
	assert.Equal(t, "c", purchasing.ChoosePresentation([]*entity.Presentation{cheap, otherDefault}, "s1").ID)
	assert.Equal(t, "a", purchasing.ChoosePresentation([]*entity.Presentation{pricey, cheap, inactive}, "").ID)
	assert.Nil(t, purchasing.ChoosePresentation([]*entity.Presentation{inactive}, ""))
}

// failingOrders falla al crear la cabecera número failOn dentro de la transacción.
type failingOrders struct {
	repository.OrderRepository
	created *int
	failOn  int
}

func (f failingOrders) Create(ctx context.Context, o *entity.Order) error {
	*f.created++
	if *f.created == f.failOn {
		return errors.New("falla de escritura")
	}
	return f.OrderRepository.Create(ctx, o)
}

type failingTx struct {
	store  *memory.Store
	failOn int
}

func (t failingTx) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	created := 0
	return t.store.Run(ctx, func(repos repository.Repositories) error {
		repos.Orders = failingOrders{OrderRepository: repos.Orders, created: &created, failOn: t.failOn}
		return fn(repos)
	})
}

// addSecondSupplier agrega azúcar bajo mínimo con su presentación en un segundo proveedor.
func addSecondSupplier(t *testing.T, f *fixture) *entity.Supplier {
	t.Helper()
	ctx := context.Background()
	repos := f.store.Repositories()
	sup := &entity.Supplier{ID: "sup-2", Name: "Dulces Andinos", Active: true}
	require.NoError(t, repos.Suppliers.Create(ctx, sup))
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{
		ID: "item-azu", SKU: "AZU", Name: "Azúcar", BaseUnit: entity.UnitKilogram,
		MinStock: d("5"), MaxStock: d("10"), DefaultSupplierID: sup.ID, Active: true,
	}))
	require.NoError(t, repos.Presentations.Create(ctx, &entity.Presentation{
		ID: "pre-azu", ItemID: "item-azu", SupplierID: sup.ID, Name: "Bolsa 5 kg", Unit: "bolsa",
		ConversionFactor: d("5"), Price: d("20"), IsDefault: true, Active: true,
	}))
	return sup
}

func TestGenerateSuggested_FallaDejaTodoSinCambios(t *testing.T) {
	f := newFixture(t)
	addSecondSupplier(t, f)
	ctx := context.Background()
	repos := f.store.Repositories()

	uc := purchasing.NewOrderUseCase(repos, failingTx{store: f.store, failOn: 2}, nil, d("2"), logger.Nop())
	_, err := uc.GenerateSuggested(ctx, "u1")
	require.Error(t, err)

	orders, err := repos.Orders.List(ctx, entity.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders, "el borrador del primer proveedor no debe quedar")

	res, err := f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, res.Orders, 2)
	for _, o := range res.Orders {
		order, err := f.uc.GetByID(ctx, o.OrderID)
		require.NoError(t, err)
		assert.Len(t, order.Details, 1)
	}
}

func TestGenerateSuggested_CambioDeProveedorMueveLaLinea(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repos := f.store.Repositories()
	require.NoError(t, repos.Items.Create(ctx, &entity.Item{
		ID: "item-lev", SKU: "LEV", Name: "Levadura", BaseUnit: entity.UnitKilogram,
		MinStock: d("1"), MaxStock: d("2"), DefaultSupplierID: f.supplier.ID, Active: true,
	}))
	require.NoError(t, repos.Presentations.Create(ctx, &entity.Presentation{
		ID: "pre-lev", ItemID: "item-lev", SupplierID: f.supplier.ID, Name: "Kilo", Unit: "kg",
		ConversionFactor: d("1"), Price: d("10"), IsDefault: true, Active: true,
	}))

	first, err := f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, first.Orders, 1)
	assert.True(t, first.Orders[0].Total.Equal(d("120")))

	sup2 := &entity.Supplier{ID: "sup-2", Name: "Harinera del Valle", Active: true}
	require.NoError(t, repos.Suppliers.Create(ctx, sup2))
	require.NoError(t, repos.Presentations.Create(ctx, &entity.Presentation{
		ID: "pre-bulto-2", ItemID: f.flour.ID, SupplierID: sup2.ID, Name: "Bulto 25 kg", Unit: "bulto",
		ConversionFactor: d("25"), Price: d("40"), IsDefault: true, Active: true,
	}))
	f.flour.DefaultSupplierID = sup2.ID
	require.NoError(t, repos.Items.Update(ctx, f.flour))

	_, err = f.uc.GenerateSuggested(ctx, "u1")
	require.NoError(t, err)

	drafts, err := f.uc.List(ctx, entity.OrderFilter{Status: entity.OrderStatusDraft})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	for _, h := range drafts {
		order, err := f.uc.GetByID(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, order.Details, 1, "cada ítem se pide a un solo proveedor")
		switch order.SupplierID {
		case f.supplier.ID:
			assert.Equal(t, "item-lev", order.Details[0].ItemID)
			assert.True(t, order.Total.Equal(d("20")), "total %s", order.Total)
		case sup2.ID:
			assert.Equal(t, f.flour.ID, order.Details[0].ItemID)
			assert.True(t, order.Total.Equal(d("80")))
		default:
			t.Fatalf("proveedor inesperado %s", order.SupplierID)
		}
	}
}
