package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Panaderia-api/docs"
	"github.com/jhoicas/Panaderia-api/internal/application/alerts"
	appanalytics "github.com/jhoicas/Panaderia-api/internal/application/analytics"
	"github.com/jhoicas/Panaderia-api/internal/application/auth"
	"github.com/jhoicas/Panaderia-api/internal/application/inventory"
	"github.com/jhoicas/Panaderia-api/internal/application/purchasing"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/excel"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Panaderia-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Panaderia-api/internal/interfaces/http"
	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret-no-usar-en-produccion"
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	ctx := context.Background()
	var (
		repos    repository.Repositories
		txRunner repository.TxRunner
	)
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		repos, txRunner = store.Repositories(), store
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
		if cfg.DB.MigrateOnStart {
			migrator, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Named("migrate"))
			if err != nil {
				log.Fatal().Err(err).Msg("inicializar migraciones")
			}
			if err := migrator.Up(); err != nil {
				log.Fatal().Err(err).Msg("aplicar migraciones")
			}
			_ = migrator.Close()
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos, txRunner = postgres.NewRepositories(pool), postgres.NewTxRunner(pool)
	}

	// Permisos por rol con caché; RoleUseCase la invalida al editar roles.
	permissions := rbac.NewCachedResolver(usecase.NewRoleResolver(repos.Roles), cfg.Inventory.PermissionCacheTTL)
	roleUC := usecase.NewRoleUseCase(repos.Roles, permissions)

	authUC := auth.NewAuthUseCase(repos.Profiles, repos.Roles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Documentos: orden de compra en PDF y planillas Excel
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	sheets := excel.NewSheetExporter()

	stockUC := inventory.NewStockUseCase(repos, txRunner, sheets, log.Named("stock"))
	productionUC := inventory.NewProductionUseCase(repos, txRunner, log.Named("production"))
	lossUC := inventory.NewLossUseCase(repos, txRunner, log.Named("losses"))
	countUC := inventory.NewCountUseCase(repos, txRunner, sheets, log.Named("counts"))
	orderUC := purchasing.NewOrderUseCase(repos, txRunner, pdfGenerator, cfg.Inventory.SuggestedOrderCoverage, log.Named("orders"))
	alertUC := alerts.NewExpirationUseCase(repos, txRunner,
		cfg.Inventory.ExpirationWarningDays, cfg.Inventory.ExpirationCriticalDays, log.Named("alerts"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	httpRouter.Use(app, log.Named("http"), cfg.HTTP.CORSOrigins)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Panadería Inventario API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProfileUC:    usecase.NewProfileUseCase(repos.Profiles, repos.Roles),
		RoleUC:       roleUC,
		CatalogUC:    usecase.NewCatalogUseCase(repos.Categories, repos.ItemTypes, repos.StorageAreas),
		SupplierUC:   usecase.NewSupplierUseCase(repos.Suppliers),
		ItemUC:       usecase.NewItemUseCase(repos, txRunner),
		StockUC:      stockUC,
		ProductionUC: productionUC,
		LossUC:       lossUC,
		CountUC:      countUC,
		OrderUC:      orderUC,
		AlertUC:      alertUC,
		DashboardUC:  appanalytics.NewDashboardUseCase(repos),
		Permissions:  permissions,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
