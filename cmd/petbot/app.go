package main

import (
	"context"
	"fmt"

	"petbot/internal/adapters/storage/memory"
	"petbot/internal/adapters/storage/postgres"
	"petbot/internal/adapters/storage/sqlite"
	"petbot/internal/domain/pets"
	"petbot/internal/platform/config"
	"petbot/internal/platform/logger"
)

// app junta lo que comparten todos los subcomandos.
type app struct {
	cfg     config.Config
	log     logger.Logger
	catalog *pets.Catalog
	repo    pets.Repository

	closers []func() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	a := &app{cfg: cfg, log: log}
	if zl, ok := log.(*logger.ZapLogger); ok {
		a.closers = append(a.closers, func() error {
			_ = zl.Sync()
			return nil
		})
	}

	if a.catalog, err = pets.LoadCatalog(cfg.CatalogPath); err != nil {
		a.close()
		return nil, err
	}
	if err := a.openStore(ctx); err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, a.cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.repo = postgres.NewPetsRepo(db)
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.repo = sqlite.NewPetsRepo(db)
	default:
		a.log.Warn("using in-memory store; records are lost on restart", nil)
		a.repo = memory.NewPetRepo()
	}
	a.log.Info("store ready", map[string]any{"driver": a.cfg.StoreDriver})
	return nil
}

// close cierra en orden inverso al de apertura (el logger va último).
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close failed", map[string]any{"err": err})
		}
	}
}
