// migrate aplica o revierte las migraciones SQL embebidas.
//
// Uso:
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate -steps 1 down
//	go run ./cmd/migrate version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/Panaderia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Panaderia-api/pkg/config"
	"github.com/jhoicas/Panaderia-api/pkg/logger"
)

func main() {
	steps := flag.Int("steps", 1, "Migraciones a revertir con down (0 = todas)")
	help := flag.Bool("help", false, "Muestra la ayuda")
	flag.Parse()

	if *help || flag.NArg() != 1 {
		usage()
		if *help {
			return
		}
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar migrador")
		}
	}()

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down(*steps)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil {
			err = verr
			break
		}
		fmt.Printf("versión %d (dirty=%t)\n", v, dirty)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Str("cmd", flag.Arg(0)).Msg("migración fallida")
		os.Exit(1)
	}
	if flag.Arg(0) != "version" {
		v, dirty, _ := m.Version()
		log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migraciones aplicadas")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Uso: migrate [-steps N] up|down|version")
	flag.PrintDefaults()
}
