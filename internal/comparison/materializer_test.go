package comparison

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/cache"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
)

func newTestMaterializer(cache ComparisonCache) *Materializer {
	return NewMaterializer(nil, query.NewLibrary(catalog.Default()), cache, Config{})
}

func TestTable(t *testing.T) {
	store := catalog.Default()
	a, _ := store.Products.FindByID(3)
	b, _ := store.Products.FindByID(4)

	got := Table(a, b, format.Row{Feature: "Usage", Primary: "Gaming", Secondary: "Office"})
	want := "Comparison Table:\n\n" +
		"Feature\tGaming Laptop G15\tBusiness Laptop X1\n" +
		"Brand\tHyperTech\tTechNova\n" +
		"Price\t₹1,20,000\t₹75,000\n" +
		"Category\tLaptop\tLaptop\n" +
		"Usage\tGaming\tOffice"
	assert.Equal(t, want, got)
}

func TestMaterializer_Compare(t *testing.T) {
	m := newTestMaterializer(nil)
	m.Annotate(3, 4, format.Row{Feature: "Graphics", Primary: "RTX", Secondary: "Integrated"})

	c, err := m.Compare(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop G15", c.Primary.Name)
	require.Len(t, c.Rows, 4)
	assert.Equal(t, format.Row{Feature: "Graphics", Primary: "RTX", Secondary: "Integrated"}, c.Rows[3])
	assert.Len(t, c.Hash, 16)

	// The reverse direction shares the entry with swapped columns.
	r, err := m.Compare(context.Background(), 4, 3)
	require.NoError(t, err)
	assert.Equal(t, "Business Laptop X1", r.Primary.Name)
	assert.Equal(t, format.Row{Feature: "Graphics", Primary: "Integrated", Secondary: "RTX"}, r.Rows[3])
	assert.Equal(t, format.Row{Feature: "Price", Primary: "₹75,000", Secondary: "₹1,20,000"}, r.Rows[1])
	assert.Equal(t, c.Hash, r.Hash)
}

func TestMaterializer_AnnotateReversed(t *testing.T) {
	m := newTestMaterializer(nil)
	m.Annotate(4, 3, format.Row{Feature: "Usage", Primary: "Office", Secondary: "Gaming"})

	c, err := m.Compare(context.Background(), 3, 4)
	require.NoError(t, err)
	assert.Equal(t, format.Row{Feature: "Usage", Primary: "Gaming", Secondary: "Office"}, c.Rows[3])
}

func TestMaterializer_Errors(t *testing.T) {
	m := newTestMaterializer(nil)
	ctx := context.Background()

	_, err := m.Compare(ctx, 1, 1)
	assert.ErrorIs(t, err, ErrSameProduct)

	_, err = m.Compare(ctx, 42, 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.ErrorContains(t, err, "primary product")

	_, err = m.Compare(ctx, 1, 42)
	assert.ErrorContains(t, err, "secondary product")
}

func TestMaterializer_ExternalCache(t *testing.T) {
	cache := NewMemoryComparisonCache()
	ctx := context.Background()

	first := newTestMaterializer(cache)
	_, err := first.Compare(ctx, 1, 2)
	require.NoError(t, err)

	rows, ok := cache.Get(ctx, "1:2")
	require.True(t, ok)
	assert.Equal(t, "VisionMax", rows[0].Primary)

	// A fresh materializer is served from the shared cache.
	second := newTestMaterializer(cache)
	c, err := second.Compare(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, "UltraView", c.Rows[0].Primary)
}

func TestMaterializer_InvalidateProduct(t *testing.T) {
	m := newTestMaterializer(nil)
	ctx := context.Background()

	_, err := m.Compare(ctx, 5, 6)
	require.NoError(t, err)
	_, err = m.Compare(ctx, 1, 2)
	require.NoError(t, err)

	m.InvalidateProduct(6)

	m.mu.RLock()
	defer m.mu.RUnlock()
	assert.NotContains(t, m.comparisons, "5:6")
	assert.Contains(t, m.comparisons, "1:2")
}

func TestMemoryComparisonCache_Expiry(t *testing.T) {
	c := NewMemoryComparisonCache()
	ctx := context.Background()

	c.Set(ctx, "1:2", []format.Row{{Feature: "Brand"}}, -time.Second)
	_, ok := c.Get(ctx, "1:2")
	assert.False(t, ok)
}

func TestClientCache(t *testing.T) {
	client := cache.NewMemoryClient(10)
	defer client.Close()
	ctx := context.Background()

	m := newTestMaterializer(NewClientCache(client))
	_, err := m.Compare(ctx, 4, 3)
	require.NoError(t, err)

	data, err := client.Get(ctx, "comparison:3:4")
	require.NoError(t, err)
	assert.Contains(t, string(data), "HyperTech")

	rows, ok := NewClientCache(client).Get(ctx, "3:4")
	require.True(t, ok)
	assert.Equal(t, "Brand", rows[0].Feature)
}
