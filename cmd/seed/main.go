// seed carga el catálogo inicial (ítems, categorías, áreas y proveedores) desde un CSV.
//
// Uso: go run ./cmd/seed -file catalogo.csv [-encoding auto|utf-8|iso-8859-1]
//
// Las filas cuyo SKU ya existe se omiten, así que puede ejecutarse varias veces.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Panaderia-api/internal/application/catalogimport"
	"github.com/jhoicas/Panaderia-api/internal/application/usecase"
	"github.com/jhoicas/Panaderia-api/internal/domain/repository"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/memory"
	"github.com/jhoicas/Panaderia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func main() {
	file := flag.String("file", "catalogo.csv", "Ruta del CSV de catálogo")
	encoding := flag.String("encoding", catalogimport.EncodingAuto, "Codificación del archivo: auto, utf-8 o iso-8859-1")
	help := flag.Bool("help", false, "Muestra la ayuda")
	flag.Parse()

	if *help {
		fmt.Fprintln(os.Stderr, "Uso: seed -file catalogo.csv [-encoding auto|utf-8|iso-8859-1]")
		fmt.Fprintln(os.Stderr, "Columnas: sku, nombre, unidad, categoria, area, proveedor, stock_minimo, stock_maximo, perecedero, vida_util_dias")
		flag.PrintDefaults()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("leer CSV")
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
		log.Warn().Msg("almacenamiento en memoria: la carga solo valida el archivo")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repos, txRunner = postgres.NewRepositories(pool), postgres.NewTxRunner(pool)
	}

	importer := catalogimport.NewImporter(
		usecase.NewCatalogUseCase(repos.Categories, repos.ItemTypes, repos.StorageAreas),
		usecase.NewSupplierUseCase(repos.Suppliers),
		usecase.NewItemUseCase(repos, txRunner),
		log.Named("seed"),
	)
	res, err := importer.Import(ctx, data, *encoding)
	if err != nil {
		log.Error().Err(err).Msg("importación interrumpida")
		if res == nil {
			os.Exit(1)
		}
	}

	fmt.Printf("Ítems creados: %d\n", res.Items)
	fmt.Printf("Categorías: %d, áreas: %d, proveedores: %d\n", res.Categories, res.StorageAreas, res.Suppliers)
	for _, s := range res.Skipped {
		fmt.Printf("  línea %d %s: %s\n", s.Line, s.SKU, s.Reason)
	}
	if err != nil {
		os.Exit(1)
	}
}
