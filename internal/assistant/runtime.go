package assistant

import (
	"context"
	"fmt"
	"io"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/cache"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/comparison"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/config"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/storage"
)

// Runtime holds the components built from a Config.
type Runtime struct {
	Config      *config.Config
	Logger      *observability.Logger
	Store       *catalog.Store
	Service     *Service
	Comparisons *comparison.Materializer
	Audit       *monitoring.AuditLogger
	Cache       cache.Client
}

// NewLogger builds the process logger from the observability section.
func NewLogger(cfg *config.Config, service string, output io.Writer) *observability.Logger {
	o := cfg.Observability
	return observability.NewLogger(observability.LogConfig{
		Level:       o.LogLevel,
		Format:      o.LogFormat,
		Output:      output,
		ServiceName: service,
		File: observability.FileConfig{
			Path:       o.LogFile.Path,
			MaxSizeMB:  o.LogFile.MaxSizeMB,
			MaxBackups: o.LogFile.MaxBackups,
			MaxAgeDays: o.LogFile.MaxAgeDays,
			Compress:   o.LogFile.Compress,
		},
	})
}

// NewRuntime loads the catalog and wires the answer service, comparison
// materializer, cache and audit trail. Close releases the cache.
func NewRuntime(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Runtime, error) {
	if logger == nil {
		logger = observability.Nop()
	}

	store, err := storage.Load(ctx, cfg.Catalog, logger)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	client, publisher, err := newCache(cfg, logger)
	if err != nil {
		return nil, err
	}

	var audit *monitoring.AuditLogger
	if cfg.Audit.Enabled {
		audit = monitoring.NewAuditLogger(logger, publisher, cfg.Audit.Channel)
		if err := audit.LogCatalogLoad(ctx, cfg.Catalog.Source, store.Products.Len(), store.Suppliers.Len()); err != nil {
			logger.Warn().Err(err).Msg("Failed to publish catalog load event")
		}
	}

	opts := Options{CacheTTL: cfg.Cache.TTL, Audit: audit}
	if cfg.Assistant.CacheAnswers {
		opts.Cache = client
	}
	svc := New(logger, store, opts)

	materializer := comparison.NewMaterializer(logger, svc.Library(), comparison.NewClientCache(client), comparison.Config{
		CacheTTL: cfg.Cache.TTL,
	})
	annotateLaptops(svc, materializer)

	return &Runtime{
		Config:      cfg,
		Logger:      logger,
		Store:       store,
		Service:     svc,
		Comparisons: materializer,
		Audit:       audit,
		Cache:       client,
	}, nil
}

// Close releases the cache connection.
func (r *Runtime) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

// newCache returns the configured cache and, for redis, the publisher used for
// audit events.
func newCache(cfg *config.Config, logger *observability.Logger) (cache.Client, monitoring.Publisher, error) {
	if cfg.Cache.Driver != "redis" {
		return cache.NewMemoryClient(cfg.Cache.MaxEntries), nil, nil
	}

	r := cfg.Cache.Redis
	client, err := cache.NewRedisClient(cache.RedisConfig{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
		PoolSize: r.PoolSize,
		Prefix:   r.Prefix,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}

	logger.Info().Str("addr", r.Addr).Msg("Using redis cache")
	return client, client, nil
}

// annotateLaptops attaches the curated laptop notes to the API comparison
// when both laptops are present in the catalog.
func annotateLaptops(svc *Service, m *comparison.Materializer) {
	gaming, err := svc.Library().ProductByName("gaming laptop g15")
	if err != nil {
		return
	}
	business, err := svc.Library().ProductByName("business laptop x1")
	if err != nil {
		return
	}
	m.Annotate(gaming.ID, business.ID, intent.LaptopComparisonNotes()...)
}
