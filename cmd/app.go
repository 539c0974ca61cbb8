package cmd

import (
	"context"
	"fmt"

	"sheet-sync/core/catalog"
	"sheet-sync/core/config"
	"sheet-sync/core/database"
	"sheet-sync/core/logger"
	"sheet-sync/core/reconcile"
	"sheet-sync/core/smartsheet"
	"sheet-sync/core/storage"
	"sheet-sync/feature/sync"

	"go.uber.org/zap"
)

// app is the wiring shared by the commands.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	pool    *database.Pool
	service *sync.Service
}

// newCatalog builds the catalog loader, reading from a bucket when one is configured.
func newCatalog(cfg *config.Config) (sync.CatalogFunc, error) {
	var client storage.Client
	if cfg.Catalog.Bucket != "" {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		client = c
	}

	src := catalog.NewSource(cfg.Catalog, client)
	if bucket, ok := src.(catalog.BucketSource); ok {
		if err := bucket.Check(context.Background()); err != nil {
			return nil, err
		}
	}
	return sync.CatalogLoader(src, cfg.Catalog), nil
}

func loadBase() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)
	return cfg, logg, nil
}

// newApp loads configuration and connects every collaborator of a run.
// With dryRun set, sheets are read but never written.
func newApp(dryRun bool) (*app, error) {
	cfg, logg, err := loadBase()
	if err != nil {
		return nil, err
	}

	load, err := newCatalog(cfg)
	if err != nil {
		return nil, err
	}

	sheets, err := smartsheet.NewClient(cfg.Smartsheet)
	if err != nil {
		return nil, err
	}

	var table reconcile.Table = sheets
	if dryRun {
		table = sync.NewDryRunTable(sheets, logg)
		logg.Info("Dry run: no rows will be written")
	}

	pool := database.Open(cfg.Databases, cfg.Sources.ChunkSize, logg)
	runner := sync.NewRunner(pool, table, logg)

	return &app{
		cfg:     cfg,
		log:     logg,
		pool:    pool,
		service: sync.NewService(runner, load, logg),
	}, nil
}

func (a *app) close() {
	if err := a.pool.Close(); err != nil {
		a.log.Warn("Failed to close source databases", zap.Error(err))
	}
	_ = a.log.Sync()
}
