package storage

import (
	"context"
	"fmt"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/config"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
)

// BuiltinDataset returns the built-in catalog in external form.
func BuiltinDataset() Dataset {
	return DatasetFromStore(catalog.Default())
}

// Load builds the catalog store from the configured source. Any integrity
// violation in the source data is returned as an error.
func Load(ctx context.Context, cfg config.CatalogConfig, logger *observability.Logger) (*catalog.Store, error) {
	if logger == nil {
		logger = observability.Nop()
	}

	var (
		d   Dataset
		err error
	)

	switch cfg.Source {
	case config.SourceBuiltin, "":
		d = BuiltinDataset()
	case config.SourceYAML:
		d, err = LoadYAML(cfg.Path)
	case config.SourceCSV:
		d, err = LoadCSV(cfg.Path)
	case config.SourceSQLite:
		d, err = loadSQL(ctx, "sqlite3", cfg.Path, cfg.Seed)
	case config.SourcePostgres:
		d, err = loadSQL(ctx, "postgres", cfg.DSN, cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s catalog: %w", cfg.Source, err)
	}

	store, err := d.Store()
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("source", cfg.Source).
		Int("products", store.Products.Len()).
		Int("suppliers", store.Suppliers.Len()).
		Msg("Catalog loaded")

	return store, nil
}

func loadSQL(ctx context.Context, driver, dsn string, seed bool) (Dataset, error) {
	db, err := Open(ctx, driver, dsn)
	if err != nil {
		return Dataset{}, err
	}
	defer db.Close()

	repo := NewCatalogRepository(db)
	if seed {
		if _, err := repo.SeedIfEmpty(ctx, BuiltinDataset()); err != nil {
			return Dataset{}, fmt.Errorf("seed catalog: %w", err)
		}
	}
	return repo.Dataset(ctx)
}
