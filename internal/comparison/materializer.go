// Package comparison builds side-by-side product comparisons.
package comparison

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/cache"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
)

// Common errors.
var (
	ErrSameProduct = errors.New("cannot compare a product with itself")
)

// Rows returns the fixed Brand, Price and Category rows for a and b followed
// by any commentary rows.
func Rows(a, b catalog.Product, commentary ...format.Row) []format.Row {
	rows := []format.Row{
		{Feature: "Brand", Primary: a.Brand, Secondary: b.Brand},
		{Feature: "Price", Primary: format.Price(a.Price), Secondary: format.Price(b.Price)},
		{Feature: "Category", Primary: a.Category, Secondary: b.Category},
	}
	return append(rows, commentary...)
}

// Table renders the comparison table for a and b.
func Table(a, b catalog.Product, commentary ...format.Row) string {
	return format.ComparisonTable(a.Name, b.Name, Rows(a, b, commentary...))
}

// Materializer computes comparisons between catalog products and keeps the
// results, along with curated commentary, per product pair.
type Materializer struct {
	logger *observability.Logger
	lib    *query.Library
	cache  ComparisonCache
	ttl    time.Duration

	mu          sync.RWMutex
	comparisons map[string]*CachedComparison // key: pairKey
	commentary  map[string][]format.Row
}

// ComparisonCache provides caching for comparison results.
type ComparisonCache interface {
	Get(ctx context.Context, key string) ([]format.Row, bool)
	Set(ctx context.Context, key string, value []format.Row, ttl time.Duration)
}

// CachedComparison holds cached comparison data.
type CachedComparison struct {
	Rows      []format.Row
	CreatedAt time.Time
	Hash      string
}

// Config for the materializer.
type Config struct {
	CacheTTL time.Duration
}

// NewMaterializer creates a new comparison materializer.
func NewMaterializer(logger *observability.Logger, lib *query.Library, cache ComparisonCache, cfg Config) *Materializer {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 1 * time.Hour
	}
	if logger == nil {
		logger = observability.Nop()
	}

	return &Materializer{
		logger:      logger,
		lib:         lib,
		cache:       cache,
		ttl:         cfg.CacheTTL,
		comparisons: make(map[string]*CachedComparison),
		commentary:  make(map[string][]format.Row),
	}
}

// Comparison is the result of comparing two products.
type Comparison struct {
	Primary    catalog.Product `json:"primary"`
	Secondary  catalog.Product `json:"secondary"`
	Rows       []format.Row    `json:"rows"`
	Table      string          `json:"table"`
	ComputedAt time.Time       `json:"computedAt"`
	Hash       string          `json:"hash"`
}

// Annotate registers commentary rows shown when the given pair is compared.
// Row columns follow the primary then secondary order passed here.
func (m *Materializer) Annotate(primaryID, secondaryID int, rows ...format.Row) {
	rows = append([]format.Row(nil), rows...)
	if primaryID > secondaryID {
		rows = swapColumns(rows)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := pairKey(primaryID, secondaryID)
	m.commentary[key] = rows
	delete(m.comparisons, key)
}

// Compare retrieves or computes a comparison between two products.
func (m *Materializer) Compare(ctx context.Context, primaryID, secondaryID int) (*Comparison, error) {
	if primaryID == secondaryID {
		return nil, ErrSameProduct
	}

	primary, err := m.lib.Store().Products.FindByID(primaryID)
	if err != nil {
		return nil, fmt.Errorf("primary product: %w", err)
	}
	secondary, err := m.lib.Store().Products.FindByID(secondaryID)
	if err != nil {
		return nil, fmt.Errorf("secondary product: %w", err)
	}

	m.logger.Debug().
		Int("primary_product", primaryID).
		Int("secondary_product", secondaryID).
		Msg("Processing comparison request")

	key := pairKey(primaryID, secondaryID)

	m.mu.RLock()
	cached, ok := m.comparisons[key]
	m.mu.RUnlock()

	if ok && time.Since(cached.CreatedAt) < m.ttl {
		return m.response(primary, secondary, cached.Rows, cached.CreatedAt, cached.Hash), nil
	}

	if m.cache != nil {
		if rows, found := m.cache.Get(ctx, key); found {
			return m.response(primary, secondary, rows, time.Now(), computeHash(rows)), nil
		}
	}

	lo, hi := primary, secondary
	if lo.ID > hi.ID {
		lo, hi = hi, lo
	}

	m.mu.RLock()
	commentary := m.commentary[key]
	m.mu.RUnlock()

	rows := Rows(lo, hi, commentary...)
	created := m.cacheResult(ctx, key, rows)

	return m.response(primary, secondary, rows, created.CreatedAt, created.Hash), nil
}

// response builds a Comparison. Cached rows are oriented by ascending product
// id and are swapped when the caller asked for the other order.
func (m *Materializer) response(primary, secondary catalog.Product, rows []format.Row, at time.Time, hash string) *Comparison {
	if primary.ID > secondary.ID {
		rows = swapColumns(rows)
	}
	return &Comparison{
		Primary:    primary,
		Secondary:  secondary,
		Rows:       rows,
		Table:      format.ComparisonTable(primary.Name, secondary.Name, rows),
		ComputedAt: at,
		Hash:       hash,
	}
}

// InvalidateProduct removes cached comparisons involving productID.
func (m *Materializer) InvalidateProduct(productID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.comparisons {
		var a, b int
		if _, err := fmt.Sscanf(key, "%d:%d", &a, &b); err != nil {
			continue
		}
		if a == productID || b == productID {
			delete(m.comparisons, key)
		}
	}
}

func (m *Materializer) cacheResult(ctx context.Context, key string, rows []format.Row) *CachedComparison {
	cached := &CachedComparison{
		Rows:      rows,
		CreatedAt: time.Now(),
		Hash:      computeHash(rows),
	}

	m.mu.Lock()
	m.comparisons[key] = cached
	m.mu.Unlock()

	if m.cache != nil {
		m.cache.Set(ctx, key, rows, m.ttl)
	}
	return cached
}

// pairKey orders ids so both directions share one entry.
func pairKey(primaryID, secondaryID int) string {
	if primaryID > secondaryID {
		primaryID, secondaryID = secondaryID, primaryID
	}
	return fmt.Sprintf("%d:%d", primaryID, secondaryID)
}

func computeHash(rows []format.Row) string {
	h := sha256.New()
	for _, row := range rows {
		h.Write([]byte(row.Feature))
		h.Write([]byte(row.Primary))
		h.Write([]byte(row.Secondary))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func swapColumns(rows []format.Row) []format.Row {
	out := make([]format.Row, len(rows))
	for i, r := range rows {
		out[i] = format.Row{Feature: r.Feature, Primary: r.Secondary, Secondary: r.Primary}
	}
	return out
}

// MemoryComparisonCache provides an in-memory cache for comparisons.
type MemoryComparisonCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	rows    []format.Row
	expires time.Time
}

// NewMemoryComparisonCache creates a new in-memory comparison cache.
func NewMemoryComparisonCache() *MemoryComparisonCache {
	return &MemoryComparisonCache{
		items: make(map[string]cacheItem),
	}
}

// Get retrieves a cached comparison.
func (c *MemoryComparisonCache) Get(ctx context.Context, key string) ([]format.Row, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expires) {
		return nil, false
	}
	return item.rows, true
}

// Set stores a comparison in the cache.
func (c *MemoryComparisonCache) Set(ctx context.Context, key string, value []format.Row, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		rows:    value,
		expires: time.Now().Add(ttl),
	}
}

// ClientCache stores comparison rows in a shared cache.Client so several
// processes reuse each other's results.
type ClientCache struct {
	client cache.Client
}

// NewClientCache wraps client as a ComparisonCache.
func NewClientCache(client cache.Client) *ClientCache {
	return &ClientCache{client: client}
}

// Get retrieves cached rows. Decode and transport errors count as misses.
func (c *ClientCache) Get(ctx context.Context, key string) ([]format.Row, bool) {
	data, err := c.client.Get(ctx, cache.CacheKey("comparison", key))
	if err != nil {
		return nil, false
	}
	var rows []format.Row
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// Set stores rows, ignoring failures.
func (c *ClientCache) Set(ctx context.Context, key string, value []format.Row, ttl time.Duration) {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cache.CacheKey("comparison", key), data, ttl)
}
