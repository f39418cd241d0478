package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Panaderia-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/Panaderia-api/internal/application/analytics"
	"github.com/jhoicas/Panaderia-api/internal/application/auth"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/purchasing"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProfileUC    *usecase.ProfileUseCase
	RoleUC       *usecase.RoleUseCase
	CatalogUC    *usecase.CatalogUseCase
	SupplierUC   *usecase.SupplierUseCase
	ItemUC       *usecase.ItemUseCase
	StockUC      *inventory.StockUseCase
	ProductionUC *inventory.ProductionUseCase
	LossUC       *inventory.LossUseCase
	CountUC      *inventory.CountUseCase
	OrderUC      *purchasing.OrderUseCase
	AlertUC      *alerts.ExpirationUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	Permissions  rbac.Resolver
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	perm := func(code string) fiber.Handler { return RequirePermission(deps.Permissions, code) }

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.ProfileUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	var sessions SessionChecker
	if deps.ProfileUC != nil {
		sessions = deps.ProfileUC
	}
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, sessions))

	protected.Post("/auth/register", perm("profiles:create"), authHandler.Register)
	protected.Get("/auth/me", authHandler.Me)

	profiles := protected.Group("/profiles")
	profiles.Get("/", perm("profiles:read"), authHandler.ListProfiles)
	profiles.Put("/:id/role", perm("profiles:update"), authHandler.UpdateProfileRole)
	profiles.Put("/:id/status", perm("profiles:update"), authHandler.UpdateProfileStatus)

	// Roles y permisos
	roleHandler := NewRoleHandler(deps.RoleUC)
	protected.Get("/permissions", perm("roles:read"), roleHandler.ListPermissions)
	roles := protected.Group("/roles")
	roles.Get("/", perm("roles:read"), roleHandler.List)
	roles.Post("/", perm("roles:create"), roleHandler.Create)
	roles.Get("/:id", perm("roles:read"), roleHandler.GetByID)
	roles.Put("/:id", perm("roles:update"), roleHandler.Update)
	roles.Delete("/:id", perm("roles:delete"), roleHandler.Delete)

	// Catálogos
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	for path, res := range map[string]*CatalogResource{
		"/categories":    catalogHandler.Categories,
		"/item-types":    catalogHandler.ItemTypes,
		"/storage-areas": catalogHandler.StorageAreas,
	} {
		g := protected.Group(path)
		g.Get("/", perm("catalogs:read"), res.List)
		g.Post("/", perm("catalogs:create"), res.Create)
		g.Get("/:id", perm("catalogs:read"), res.GetByID)
		g.Put("/:id", perm("catalogs:update"), res.Update)
		g.Delete("/:id", perm("catalogs:delete"), res.Delete)
	}

	// Proveedores
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", perm("suppliers:read"), supplierHandler.List)
	suppliers.Post("/", perm("suppliers:create"), supplierHandler.Create)
	suppliers.Get("/:id", perm("suppliers:read"), supplierHandler.GetByID)
	suppliers.Put("/:id", perm("suppliers:update"), supplierHandler.Update)
	suppliers.Delete("/:id", perm("suppliers:delete"), supplierHandler.Delete)

	// Ítems, presentaciones y lotes
	itemHandler := NewItemHandler(deps.ItemUC)
	inventoryHandler := NewInventoryHandler(deps.StockUC)
	items := protected.Group("/items")
	items.Get("/", perm("items:read"), itemHandler.List)
	items.Post("/", perm("items:create"), itemHandler.Create)
	items.Get("/:id", perm("items:read"), itemHandler.GetByID)
	items.Put("/:id", perm("items:update"), itemHandler.Update)
	items.Delete("/:id", perm("items:delete"), itemHandler.Delete)
	items.Get("/:id/presentations", perm("items:read"), itemHandler.ListPresentations)
	items.Post("/:id/presentations", perm("items:create"), itemHandler.CreatePresentation)
	items.Get("/:id/batches", perm("inventory:read"), inventoryHandler.Batches)
	presentations := protected.Group("/presentations")
	presentations.Put("/:id", perm("items:update"), itemHandler.UpdatePresentation)
	presentations.Delete("/:id", perm("items:delete"), itemHandler.DeletePresentation)

	// Inventario
	invGroup := protected.Group("/inventory")
	invGroup.Get("/stock", perm("inventory:read"), inventoryHandler.Stock)
	invGroup.Get("/stock/export", perm("inventory:read"), inventoryHandler.ExportStock)
	invGroup.Get("/movements", perm("inventory:read"), inventoryHandler.Movements)
	invGroup.Post("/adjustments", perm("inventory:adjust"), inventoryHandler.Adjust)

	// Pedidos de compra
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := protected.Group("/orders")
	orders.Get("/", perm("orders:read"), orderHandler.List)
	orders.Post("/", perm("orders:create"), orderHandler.Create)
	orders.Post("/generate-suggested", perm("orders:generate"), orderHandler.GenerateSuggested)
	orders.Get("/:id", perm("orders:read"), orderHandler.GetByID)
	orders.Put("/:id", perm("orders:update"), orderHandler.Update)
	orders.Delete("/:id", perm("orders:delete"), orderHandler.Delete)
	orders.Get("/:id/pdf", perm("orders:read"), orderHandler.PDF)
	orders.Post("/:id/details", perm("orders:update"), orderHandler.AddDetail)
	orders.Put("/:id/details/:detailId", perm("orders:update"), orderHandler.UpdateDetail)
	orders.Delete("/:id/details/:detailId", perm("orders:update"), orderHandler.RemoveDetail)
	orders.Post("/:id/send", perm("orders:send"), orderHandler.Send)
	orders.Post("/:id/cancel", perm("orders:cancel"), orderHandler.Cancel)
	orders.Post("/:id/receive", perm("orders:receive"), orderHandler.Receive)

	// Producción
	productionHandler := NewProductionHandler(deps.ProductionUC)
	production := protected.Group("/production-events")
	production.Get("/", perm("production:read"), productionHandler.List)
	production.Post("/", perm("production:create"), productionHandler.Create)
	production.Get("/:id", perm("production:read"), productionHandler.GetByID)

	// Mermas
	lossHandler := NewLossHandler(deps.LossUC)
	losses := protected.Group("/loss-events")
	losses.Get("/", perm("losses:read"), lossHandler.List)
	losses.Post("/", perm("losses:create"), lossHandler.Create)
	losses.Get("/:id", perm("losses:read"), lossHandler.GetByID)

	// Conteos físicos
	countHandler := NewCountHandler(deps.CountUC)
	counts := protected.Group("/inventory-counts")
	counts.Get("/", perm("counts:read"), countHandler.List)
	counts.Post("/", perm("counts:create"), countHandler.Open)
	counts.Get("/:id", perm("counts:read"), countHandler.GetByID)
	counts.Get("/:id/sheet", perm("counts:read"), countHandler.Sheet)
	counts.Put("/:id/details/:detailId", perm("counts:update"), countHandler.UpdateDetail)
	counts.Post("/:id/close", perm("counts:close"), countHandler.Close)
	counts.Post("/:id/cancel", perm("counts:close"), countHandler.Cancel)

	// Alertas de vencimiento
	alertHandler := NewAlertHandler(deps.AlertUC)
	expiration := protected.Group("/alerts/expiration")
	expiration.Get("/", perm("alerts:read"), alertHandler.List)
	expiration.Post("/scan", perm("alerts:scan"), alertHandler.Scan)
	expiration.Get("/:id", perm("alerts:read"), alertHandler.GetByID)
	expiration.Post("/:id/resolve", perm("alerts:resolve"), alertHandler.Resolve)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", perm("dashboard:read"), dashboardHandler.GetSummary)
}
