package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/application/dto"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/entity"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Catálogos ─────────────────────────────────────────────────────────────────

func TestCatalogUseCase_CategoriaEnUsoNoSeElimina(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	catalog := usecase.NewCatalogUseCase(repos.Categories, repos.ItemTypes, repos.StorageAreas)
	items := usecase.NewItemUseCase(repos, s)

	c, err := catalog.CreateCategory(ctx, dto.CatalogRequest{Name: "  Harinas "})
	require.NoError(t, err)
	assert.Equal(t, "Harinas", c.Name)

	_, err = catalog.CreateCategory(ctx, dto.CatalogRequest{Name: "harinas"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	_, err = catalog.CreateCategory(ctx, dto.CatalogRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = items.Create(ctx, dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg", CategoryID: c.ID})
	require.NoError(t, err)
	assert.ErrorIs(t, catalog.DeleteCategory(ctx, c.ID), domain.ErrConflict)

	empty, err := catalog.CreateCategory(ctx, dto.CatalogRequest{Name: "Lácteos"})
	require.NoError(t, err)
	require.NoError(t, catalog.DeleteCategory(ctx, empty.ID))
	_, err = catalog.GetCategory(ctx, empty.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogUseCase_AreaConTemperatura(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	catalog := usecase.NewCatalogUseCase(repos.Categories, repos.ItemTypes, repos.StorageAreas)

	a, err := catalog.CreateStorageArea(ctx, dto.CatalogRequest{Name: "Bodega"})
	require.NoError(t, err)
	assert.Equal(t, entity.TemperatureAmbient, a.Temperature)

	cold, err := catalog.CreateStorageArea(ctx, dto.CatalogRequest{Name: "Cuarto frío", Temperature: "REFRIGERATED"})
	require.NoError(t, err)
	assert.Equal(t, entity.TemperatureRefrigerated, cold.Temperature)

	_, err = catalog.CreateStorageArea(ctx, dto.CatalogRequest{Name: "Horno", Temperature: "caliente"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := catalog.ListStorageAreas(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// ── Proveedores ───────────────────────────────────────────────────────────────

func TestSupplierUseCase_BorradoLogicoConReferencias(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	suppliers := usecase.NewSupplierUseCase(repos.Suppliers)
	items := usecase.NewItemUseCase(repos, s)

	_, err := suppliers.Create(ctx, dto.SupplierRequest{Name: "X", Email: "sin-arroba"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	free, err := suppliers.Create(ctx, dto.SupplierRequest{Name: "Libre"})
	require.NoError(t, err)
	assert.True(t, free.Active)
	soft, err := suppliers.Delete(ctx, free.ID)
	require.NoError(t, err)
	assert.False(t, soft)

	used, err := suppliers.Create(ctx, dto.SupplierRequest{Name: "Molinos", Email: "VENTAS@molinos.co", LeadTimeDays: 2})
	require.NoError(t, err)
	assert.Equal(t, "ventas@molinos.co", used.Email)
	it, err := items.Create(ctx, dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg"})
	require.NoError(t, err)
	_, err = items.CreatePresentation(ctx, it.ID, dto.PresentationRequest{
		SupplierID: used.ID, Name: "Bulto", Unit: "bulto", ConversionFactor: d("50"), Price: d("100"),
	})
	require.NoError(t, err)

	soft, err = suppliers.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, soft)
	got, err := suppliers.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := suppliers.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

// ── Ítems y presentaciones ────────────────────────────────────────────────────

func TestItemUseCase_Validaciones(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	items := usecase.NewItemUseCase(s.Repositories(), s)

	cases := []struct {
		name string
		req  dto.CreateItemRequest
	}{
		{"unidad desconocida", dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "lb"}},
		{"máximo menor que mínimo", dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "kg", MinStock: d("10"), MaxStock: d("5")}},
		{"perecedero sin vida útil", dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "kg", IsPerishable: true}},
		{"categoría inexistente", dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "kg", CategoryID: "nope"}},
		{"sin sku", dto.CreateItemRequest{Name: "A", BaseUnit: "kg"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := items.Create(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := items.Create(ctx, dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "KG"})
	require.NoError(t, err)
	_, err = items.Create(ctx, dto.CreateItemRequest{SKU: "A", Name: "Otro", BaseUnit: "kg"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemUseCase_ActualizarYListar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	items := usecase.NewItemUseCase(s.Repositories(), s)

	it, err := items.Create(ctx, dto.CreateItemRequest{SKU: "HAR", Name: "Harina", BaseUnit: "kg", MinStock: d("5")})
	require.NoError(t, err)
	_, err = items.Create(ctx, dto.CreateItemRequest{SKU: "AZU", Name: "Azúcar", BaseUnit: "kg"})
	require.NoError(t, err)

	name := "Harina 000"
	minStock := d("8")
	updated, err := items.Update(ctx, it.ID, dto.UpdateItemRequest{Name: &name, MinStock: &minStock})
	require.NoError(t, err)
	assert.Equal(t, "Harina 000", updated.Name)
	assert.True(t, updated.MinStock.Equal(minStock))
	assert.Equal(t, "HAR", updated.SKU)

	res, err := items.List(ctx, entity.ItemFilter{Search: "har"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 1, res.Page.Total)
	assert.Equal(t, 20, res.Page.Limit)
}

func TestItemUseCase_BorradoConHistorialDesactiva(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	items := usecase.NewItemUseCase(repos, s)

	plain, err := items.Create(ctx, dto.CreateItemRequest{SKU: "A", Name: "A", BaseUnit: "kg"})
	require.NoError(t, err)
	soft, err := items.Delete(ctx, plain.ID)
	require.NoError(t, err)
	assert.False(t, soft)
	_, err = items.GetByID(ctx, plain.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	used, err := items.Create(ctx, dto.CreateItemRequest{SKU: "B", Name: "B", BaseUnit: "kg"})
	require.NoError(t, err)
	require.NoError(t, repos.Movements.Create(ctx, &entity.InventoryMovement{
		ID: "m1", TransactionID: "t1", ItemID: used.ID, Type: entity.MovementTypeAdjustment, Quantity: d("1"),
	}))
	soft, err = items.Delete(ctx, used.ID)
	require.NoError(t, err)
	assert.True(t, soft)
	got, err := items.GetByID(ctx, used.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
}

func TestItemUseCase_PresentacionPredeterminadaUnica(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	repos := s.Repositories()
	items := usecase.NewItemUseCase(repos, s)
	suppliers := usecase.NewSupplierUseCase(repos.Suppliers)

	sup, err := suppliers.Create(ctx, dto.SupplierRequest{Name: "Avícola"})
	require.NoError(t, err)
	egg, err := items.Create(ctx, dto.CreateItemRequest{SKU: "HUE", Name: "Huevo", BaseUnit: "unit"})
	require.NoError(t, err)

	_, err = items.CreatePresentation(ctx, egg.ID, dto.PresentationRequest{
		SupplierID: sup.ID, Name: "Cubeta", Unit: "cubeta", ConversionFactor: decimal.Zero, Price: d("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	first, err := items.CreatePresentation(ctx, egg.ID, dto.PresentationRequest{
		SupplierID: sup.ID, Name: "Cubeta", Unit: "cubeta", ConversionFactor: d("30"), Price: d("15"), IsDefault: true,
	})
	require.NoError(t, err)
	assert.True(t, first.UnitPrice.Equal(d("0.5")))

	second, err := items.CreatePresentation(ctx, egg.ID, dto.PresentationRequest{
		SupplierID: sup.ID, Name: "Caja", Unit: "caja", ConversionFactor: d("360"), Price: d("170"), IsDefault: true,
	})
	require.NoError(t, err)

	list, err := items.ListPresentations(ctx, egg.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.Equal(t, p.ID == second.ID, p.IsDefault, p.Name)
	}

	_, err = items.CreatePresentation(ctx, egg.ID, dto.PresentationRequest{
		SupplierID: "fantasma", Name: "X", Unit: "x", ConversionFactor: d("1"), Price: d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	soft, err := items.DeletePresentation(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, soft)
}

// ── Roles y perfiles ──────────────────────────────────────────────────────────

type spyCache struct{ invalidated []string }

func (c *spyCache) Invalidate(roleID string) { c.invalidated = append(c.invalidated, roleID) }
func (c *spyCache) InvalidateAll()           { c.invalidated = append(c.invalidated, "*") }

func TestRoleUseCase_CrearEditarEliminar(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	cache := &spyCache{}
	roles := usecase.NewRoleUseCase(s.Repositories().Roles, cache)

	perms, err := roles.ListPermissions(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, len(rbac.Catalog))

	_, err = roles.Create(ctx, dto.RoleRequest{Name: "cajero", Permissions: []string{"ventas:leer"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	r, err := roles.Create(ctx, dto.RoleRequest{
		Name:        " Cajero ",
		Permissions: []string{"items:read", "inventory:*", "items:read"},
	})
	require.NoError(t, err)
	assert.Equal(t, "cajero", r.Name)
	assert.Equal(t, []string{"inventory:*", "items:read"}, r.Permissions)
	assert.False(t, r.IsSystem)

	_, err = roles.Create(ctx, dto.RoleRequest{Name: "cajero"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := roles.Update(ctx, r.ID, dto.RoleRequest{Name: "caja", Permissions: []string{"dashboard:read"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard:read"}, updated.Permissions)
	assert.Contains(t, cache.invalidated, r.ID)

	set, err := usecase.NewRoleResolver(s.Repositories().Roles).Permissions(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, set.Allows("dashboard:read"))
	assert.False(t, set.Allows("items:read"))

	require.NoError(t, roles.Delete(ctx, r.ID))
	_, err = roles.GetByID(ctx, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoleUseCase_RolDeSistema(t *testing.T) {
	ctx := context.Background()
	roles := usecase.NewRoleUseCase(memory.NewStore().Repositories().Roles, nil)
	admin := rbac.SeedRoles[0]

	assert.ErrorIs(t, roles.Delete(ctx, admin.ID), domain.ErrForbidden)
	_, err := roles.Update(ctx, admin.ID, dto.RoleRequest{Name: "root", Permissions: []string{"*:*"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	same, err := roles.Update(ctx, admin.ID, dto.RoleRequest{Name: admin.Name, Description: "Todo", Permissions: []string{"*:*"}})
	require.NoError(t, err)
	assert.Equal(t, "Todo", same.Description)
}

func TestRoleUseCase_RolAsignadoNoSeElimina(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	roles := usecase.NewRoleUseCase(repos.Roles, nil)

	r, err := roles.Create(ctx, dto.RoleRequest{Name: "temporal"})
	require.NoError(t, err)
	require.NoError(t, repos.Profiles.Create(ctx, &entity.Profile{ID: "p1", Email: "a@b.co", RoleID: r.ID, Active: true}))
	assert.ErrorIs(t, roles.Delete(ctx, r.ID), domain.ErrConflict)
}

func TestProfileUseCase_NoSeModificaASiMismo(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()
	profiles := usecase.NewProfileUseCase(repos.Profiles, repos.Roles)
	staff := rbac.SeedRoles[len(rbac.SeedRoles)-1]
	baker := rbac.SeedRoles[2]

	require.NoError(t, repos.Profiles.Create(ctx, &entity.Profile{ID: "yo", Email: "yo@x.co", RoleID: staff.ID, Active: true}))
	require.NoError(t, repos.Profiles.Create(ctx, &entity.Profile{ID: "otro", Email: "otro@x.co", RoleID: staff.ID, Active: true}))

	_, err := profiles.UpdateRole(ctx, "yo", "yo", dto.UpdateProfileRoleRequest{RoleID: baker.ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = profiles.UpdateStatus(ctx, "yo", "yo", dto.UpdateProfileStatusRequest{Active: false})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err := profiles.UpdateRole(ctx, "yo", "otro", dto.UpdateProfileRoleRequest{RoleID: baker.ID})
	require.NoError(t, err)
	assert.Equal(t, baker.Name, p.RoleName)
	_, err = profiles.UpdateRole(ctx, "yo", "otro", dto.UpdateProfileRoleRequest{RoleID: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err = profiles.UpdateStatus(ctx, "yo", "otro", dto.UpdateProfileStatusRequest{Active: false})
	require.NoError(t, err)
	assert.False(t, p.Active)

	list, err := profiles.List(ctx, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
