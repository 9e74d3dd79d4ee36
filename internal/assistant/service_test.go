package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/cache"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/config"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/intent"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/monitoring"
)

type failingCache struct {
	sets int
}

func (c *failingCache) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (c *failingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.sets++
	return errors.New("connection refused")
}

func (c *failingCache) Delete(ctx context.Context, key string) error            { return nil }
func (c *failingCache) DeleteByPrefix(ctx context.Context, prefix string) error { return nil }
func (c *failingCache) Close() error                                            { return nil }

type failingPublisher struct{}

func (failingPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	return errors.New("publish failed")
}

func TestService_Ask(t *testing.T) {
	svc := New(nil, catalog.Default(), Options{})

	answer := svc.Ask(context.Background(), "What is the MOST EXPENSIVE product?")
	assert.Equal(t, `OLED TV 65" – UltraView, ₹1,25,000`, answer.Text)
	assert.Equal(t, intent.RuleMostExpensiveProduct, answer.Intent)
	assert.True(t, answer.Matched)
	assert.False(t, answer.Cached)

	answer = svc.Ask(context.Background(), "hello there")
	assert.Equal(t, intent.Fallback, answer.Text)
	assert.Empty(t, answer.Intent)
	assert.False(t, answer.Matched)
}

func TestService_AskCached(t *testing.T) {
	client := cache.NewMemoryClient(100)
	defer client.Close()

	svc := New(nil, catalog.Default(), Options{Cache: client, CacheTTL: time.Minute})
	ctx := context.Background()

	first := svc.Ask(ctx, "Which supplier offers the cheapest product?")
	require.False(t, first.Cached)
	assert.Equal(t, 1, client.Len())

	// Case and surrounding whitespace share the cache entry.
	second := svc.Ask(ctx, "  which supplier offers the CHEAPEST product?  ")
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Intent, second.Intent)
	assert.Equal(t, "MobileWorld – Offers SmartPhone X20 (₹45,000)", second.Text)
}

func TestService_PurgeAnswers(t *testing.T) {
	client := cache.NewMemoryClient(100)
	defer client.Close()
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "comparison:1:2", []byte("[]"), time.Minute))
	svc := New(nil, catalog.Default(), Options{Cache: client})
	svc.Ask(ctx, "show me all mobile phones")
	require.Equal(t, 2, client.Len())

	require.NoError(t, svc.PurgeAnswers(ctx))
	assert.Equal(t, 1, client.Len(), "only answers are purged")
	assert.False(t, svc.Ask(ctx, "show me all mobile phones").Cached)

	assert.NoError(t, New(nil, catalog.Default(), Options{}).PurgeAnswers(ctx))
}

func TestService_CacheFailureKeepsAnswer(t *testing.T) {
	c := &failingCache{}
	svc := New(nil, catalog.Default(), Options{Cache: c})

	answer := svc.Ask(context.Background(), "which products are out of stock")
	assert.True(t, answer.Matched)
	assert.NotEqual(t, intent.Fallback, answer.Text)
	assert.Equal(t, 1, c.sets)
}

func TestService_AuditTrail(t *testing.T) {
	audit := monitoring.NewAuditLogger(nil, failingPublisher{}, "catalog.queries")
	svc := New(nil, catalog.Default(), Options{Audit: audit})

	answer := svc.Ask(context.Background(), "show me all mobile phones")
	assert.True(t, answer.Matched)

	events := audit.Recent(1)
	require.Len(t, events, 1)
	assert.Equal(t, monitoring.ResourceQuery, events[0].ResourceType)
	assert.Equal(t, "show me all mobile phones", events[0].Payload["question"])
	assert.Equal(t, intent.RuleMobilePhones, events[0].Payload["rule"])
	assert.NotContains(t, events[0].Payload, "failure")
}

func TestService_EmptyCatalogFallsBack(t *testing.T) {
	audit := monitoring.NewAuditLogger(nil, nil, "")
	client := cache.NewMemoryClient(10)
	defer client.Close()

	svc := New(nil, catalog.MustNewStore(nil, nil), Options{Cache: client, Audit: audit})

	answer := svc.Ask(context.Background(), "what is the most expensive product")
	assert.Equal(t, intent.Fallback, answer.Text)
	assert.True(t, answer.Matched)
	assert.Equal(t, 0, client.Len(), "failed answers are not cached")

	events := audit.Recent(1)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, "failure")
}

func TestNewRuntime(t *testing.T) {
	cfg := config.DefaultConfig()
	rt, err := NewRuntime(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, 6, rt.Store.Products.Len())
	assert.Len(t, rt.Service.Rules(), 30)

	events := rt.Audit.Recent(1)
	require.Len(t, events, 1)
	assert.Equal(t, monitoring.ResourceCatalog, events[0].ResourceType)

	c, err := rt.Comparisons.Compare(context.Background(), 4, 3)
	require.NoError(t, err)
	require.Len(t, c.Rows, 5)
	assert.Equal(t, "Integrated GPU", c.Rows[3].Primary)
	assert.Equal(t, "RTX Graphics", c.Rows[3].Secondary)
}

func TestNewRuntime_BadSource(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog = config.CatalogConfig{Source: config.SourceYAML, Path: "/does/not/exist.yaml"}

	_, err := NewRuntime(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "load catalog")
}
