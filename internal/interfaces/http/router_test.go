package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/Panaderia-api/internal/application/analytics"
	"github.com/jhoicas/Panaderia-api/internal/application/auth"
	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/purchasing"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/excel"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Panaderia-api/internal/interfaces/http"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

// newTestServer arma la API completa sobre el almacenamiento en memoria.
func newTestServer(t *testing.T) (*fiber.App, *auth.AuthUseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := logger.Nop()

	permissions := rbac.NewCachedResolver(usecase.NewRoleResolver(repos.Roles), time.Minute)
	authUC := auth.NewAuthUseCase(repos.Profiles, repos.Roles, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	})
	sheets := excel.NewSheetExporter()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Use(app, log, "")
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    usecase.NewProfileUseCase(repos.Profiles, repos.Roles),
		RoleUC:       usecase.NewRoleUseCase(repos.Roles, permissions),
		CatalogUC:    usecase.NewCatalogUseCase(repos.Categories, repos.ItemTypes, repos.StorageAreas),
		SupplierUC:   usecase.NewSupplierUseCase(repos.Suppliers),
		ItemUC:       usecase.NewItemUseCase(repos, store),
		StockUC:      inventory.NewStockUseCase(repos, store, sheets, log),
		ProductionUC: inventory.NewProductionUseCase(repos, store, log),
		LossUC:       inventory.NewLossUseCase(repos, store, log),
		CountUC:      inventory.NewCountUseCase(repos, store, sheets, log),
		OrderUC:      purchasing.NewOrderUseCase(repos, store, pdf.NewMarotoPDFGenerator("Panadería Test"), decimal.NewFromFloat(1.5), log),
		AlertUC:      alerts.NewExpirationUseCase(repos, store, 3, 1, log),
		DashboardUC:  appanalytics.NewDashboardUseCase(repos),
		Permissions:  permissions,
		JWTSecret:    testJWTSecret,
	})
	return app, authUC
}

// login registra un perfil con el rol sembrado indicado y devuelve su header Authorization.
func login(t *testing.T, app *fiber.App, authUC *auth.AuthUseCase, email string, role rbac.SeedRole) string {
	t.Helper()
	_, err := authUC.Register(context.Background(), dto.RegisterRequest{Email: email, Password: "clave-segura", RoleID: role.ID})
	require.NoError(t, err)

	var out dto.LoginResponse
	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "clave-segura"})
	decode(t, resp, http.StatusOK, &out)
	return "Bearer " + out.Token
}

func call(t *testing.T, app *fiber.App, method, path, authHeader string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, status int, out any) {
	t.Helper()
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	require.Equal(t, status, resp.StatusCode, string(raw))
	if out != nil {
		require.NoError(t, json.Unmarshal(raw, out))
	}
}

func errorCode(t *testing.T, resp *http.Response, status int) string {
	t.Helper()
	var e dto.ErrorResponse
	decode(t, resp, status, &e)
	return e.Code
}

func TestLogin_YMe(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])

	var me dto.ProfileResponse
	decode(t, call(t, app, http.MethodGet, "/api/auth/me", admin, nil), http.StatusOK, &me)
	assert.Equal(t, "admin@panaderia.co", me.Email)
	assert.Equal(t, entity.RoleAdmin, me.RoleName)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@panaderia.co", Password: "otra-clave"})
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp, http.StatusUnauthorized))

	resp = call(t, app, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp, http.StatusUnauthorized))
}

func TestCatalogos_DuplicadoYNoEncontrado(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])

	var cat dto.CatalogResponse
	decode(t, call(t, app, http.MethodPost, "/api/categories", admin, dto.CatalogRequest{Name: "Harinas"}), http.StatusCreated, &cat)

	resp := call(t, app, http.MethodPost, "/api/categories", admin, dto.CatalogRequest{Name: "harinas"})
	assert.Equal(t, "DUPLICATE", errorCode(t, resp, http.StatusConflict))

	resp = call(t, app, http.MethodGet, "/api/categories/no-existe", admin, nil)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp, http.StatusNotFound))

	resp = call(t, app, http.MethodPost, "/api/storage-areas", admin, dto.CatalogRequest{Name: "Cámara", Temperature: "tibio"})
	assert.Equal(t, "VALIDATION", errorCode(t, resp, http.StatusBadRequest))

	var list []dto.CatalogResponse
	decode(t, call(t, app, http.MethodGet, "/api/categories", admin, nil), http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, cat.ID, list[0].ID)

	decode(t, call(t, app, http.MethodDelete, "/api/categories/"+cat.ID, admin, nil), http.StatusNoContent, nil)
}

func TestPermisos_PersonalNoCreaItems(t *testing.T) {
	app, authUC := newTestServer(t)
	staff := login(t, app, authUC, "caja@panaderia.co", rbac.SeedRoles[3])

	resp := call(t, app, http.MethodPost, "/api/items", staff, dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg"})
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp, http.StatusForbidden))

	decode(t, call(t, app, http.MethodGet, "/api/items", staff, nil), http.StatusOK, nil)

	resp = call(t, app, http.MethodPost, "/api/auth/register", staff, dto.RegisterRequest{Email: "otro@x.co", Password: "12345678"})
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp, http.StatusForbidden))
}

func TestPerfiles_CambiosAplicanSinNuevoLogin(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])
	staff := login(t, app, authUC, "caja@panaderia.co", rbac.SeedRoles[3])

	var me dto.ProfileResponse
	decode(t, call(t, app, http.MethodGet, "/api/auth/me", staff, nil), http.StatusOK, &me)

	resp := call(t, app, http.MethodPost, "/api/items", staff, dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg"})
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp, http.StatusForbidden))

	decode(t, call(t, app, http.MethodPut, "/api/profiles/"+me.ID+"/role", admin,
		dto.UpdateProfileRoleRequest{RoleID: rbac.SeedRoles[0].ID}), http.StatusOK, nil)
	decode(t, call(t, app, http.MethodPost, "/api/items", staff,
		dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg"}), http.StatusCreated, nil)

	decode(t, call(t, app, http.MethodPut, "/api/profiles/"+me.ID+"/status", admin,
		dto.UpdateProfileStatusRequest{Active: false}), http.StatusOK, nil)
	resp = call(t, app, http.MethodGet, "/api/items", staff, nil)
	assert.Equal(t, "PROFILE_INACTIVE", errorCode(t, resp, http.StatusForbidden))
}

func TestInventario_AjusteStockYExportacion(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])

	var item dto.ItemResponse
	decode(t, call(t, app, http.MethodPost, "/api/items", admin, dto.CreateItemRequest{
		SKU: "AZU", Name: "Azúcar", BaseUnit: "kg", MinStock: decimal.NewFromInt(10),
	}), http.StatusCreated, &item)

	cost := decimal.NewFromInt(3)
	var level dto.StockLevelResponse
	decode(t, call(t, app, http.MethodPost, "/api/inventory/adjustments", admin, dto.AdjustmentRequest{
		ItemID: item.ID, Quantity: decimal.NewFromInt(4), UnitCost: &cost, Reason: "inventario inicial",
	}), http.StatusCreated, &level)
	assert.True(t, level.Quantity.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, entity.StockStatusLow, level.Status)

	resp := call(t, app, http.MethodPost, "/api/inventory/adjustments", admin, dto.AdjustmentRequest{
		ItemID: item.ID, Quantity: decimal.NewFromInt(-5), Reason: "rotura",
	})
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp, http.StatusConflict))

	var low []dto.StockLevelResponse
	decode(t, call(t, app, http.MethodGet, "/api/inventory/stock?status=low", admin, nil), http.StatusOK, &low)
	require.Len(t, low, 1)
	assert.Equal(t, "AZU", low[0].SKU)

	var movements []dto.MovementResponse
	decode(t, call(t, app, http.MethodGet, "/api/inventory/movements?item_id="+item.ID, admin, nil), http.StatusOK, &movements)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.MovementTypeAdjustment, movements[0].Type)

	resp = call(t, app, http.MethodGet, "/api/inventory/movements?from=ayer", admin, nil)
	assert.Equal(t, "VALIDATION", errorCode(t, resp, http.StatusBadRequest))

	var batches []dto.BatchResponse
	decode(t, call(t, app, http.MethodGet, "/api/items/"+item.ID+"/batches", admin, nil), http.StatusOK, &batches)
	assert.Len(t, batches, 1)

	resp = call(t, app, http.MethodGet, "/api/inventory/stock/export", admin, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")), "un .xlsx es un zip")
}

func TestPedidos_CicloYPDF(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])

	var sup dto.SupplierResponse
	decode(t, call(t, app, http.MethodPost, "/api/suppliers", admin, dto.SupplierRequest{Name: "Molinos del Sur", LeadTimeDays: 2}), http.StatusCreated, &sup)
	var item dto.ItemResponse
	decode(t, call(t, app, http.MethodPost, "/api/items", admin, dto.CreateItemRequest{
		SKU: "HAR", Name: "Harina", BaseUnit: "kg", MinStock: decimal.NewFromInt(10), DefaultSupplierID: sup.ID,
	}), http.StatusCreated, &item)
	var sack dto.PresentationResponse
	decode(t, call(t, app, http.MethodPost, "/api/items/"+item.ID+"/presentations", admin, dto.PresentationRequest{
		SupplierID: sup.ID, Name: "Bulto 25 kg", Unit: "bulto", ConversionFactor: decimal.NewFromInt(25), Price: decimal.NewFromInt(50), IsDefault: true,
	}), http.StatusCreated, &sack)

	var suggested dto.GenerateSuggestedOrdersResponse
	decode(t, call(t, app, http.MethodPost, "/api/orders/generate-suggested", admin, nil), http.StatusOK, &suggested)
	require.Len(t, suggested.Orders, 1)
	orderID := suggested.Orders[0].OrderID

	resp := call(t, app, http.MethodPost, "/api/orders/"+orderID+"/receive", admin, nil)
	assert.Equal(t, "INVALID_STATE", errorCode(t, resp, http.StatusUnprocessableEntity))

	var order dto.OrderResponse
	decode(t, call(t, app, http.MethodPost, "/api/orders/"+orderID+"/send", admin, nil), http.StatusOK, &order)
	assert.Equal(t, entity.OrderStatusSent, order.Status)

	resp = call(t, app, http.MethodGet, "/api/orders/"+orderID+"/pdf", admin, nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	decode(t, call(t, app, http.MethodPost, "/api/orders/"+orderID+"/receive", admin, nil), http.StatusOK, &order)
	assert.Equal(t, entity.OrderStatusReceived, order.Status)

	var levels []dto.StockLevelResponse
	decode(t, call(t, app, http.MethodGet, "/api/inventory/stock", admin, nil), http.StatusOK, &levels)
	require.Len(t, levels, 1)
	assert.Equal(t, entity.StockStatusOK, levels[0].Status)

	resp = call(t, app, http.MethodDelete, "/api/suppliers/"+sup.ID, admin, nil)
	var body map[string]bool
	decode(t, resp, http.StatusOK, &body)
	assert.True(t, body["deactivated"], "proveedor con pedidos se desactiva")
}

func TestConteos_PlanillaYCierre(t *testing.T) {
	app, authUC := newTestServer(t)
	admin := login(t, app, authUC, "admin@panaderia.co", rbac.SeedRoles[0])

	var item dto.ItemResponse
	decode(t, call(t, app, http.MethodPost, "/api/items", admin, dto.CreateItemRequest{SKU: "SAL", Name: "Sal", BaseUnit: "kg"}), http.StatusCreated, &item)

	var count dto.CountResponse
	decode(t, call(t, app, http.MethodPost, "/api/inventory-counts", admin, dto.CreateCountRequest{Notes: "mensual"}), http.StatusCreated, &count)
	require.Len(t, count.Details, 1)

	resp := call(t, app, http.MethodGet, "/api/inventory-counts/"+count.ID+"/sheet", admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	path := "/api/inventory-counts/" + count.ID + "/details/" + count.Details[0].ID
	decode(t, call(t, app, http.MethodPut, path, admin, dto.UpdateCountDetailRequest{CountedQuantity: decimal.NewFromInt(2)}), http.StatusOK, nil)
	decode(t, call(t, app, http.MethodPost, "/api/inventory-counts/"+count.ID+"/close", admin, nil), http.StatusOK, &count)
	assert.Equal(t, entity.CountStatusClosed, count.Status)

	resp = call(t, app, http.MethodPut, path, admin, dto.UpdateCountDetailRequest{CountedQuantity: decimal.NewFromInt(3)})
	assert.Equal(t, "INVALID_STATE", errorCode(t, resp, http.StatusUnprocessableEntity))

	var dash dto.DashboardSummaryDTO
	decode(t, call(t, app, http.MethodGet, "/api/dashboard/summary", admin, nil), http.StatusOK, &dash)
	assert.Equal(t, 1, dash.ItemCount)
}

func TestRutaDesconocida_RespondeErrorResponse(t *testing.T) {
	app, _ := newTestServer(t)
	resp := call(t, app, http.MethodGet, "/nada", "", nil)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp, http.StatusNotFound))
}
