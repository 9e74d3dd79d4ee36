package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
)

func newTestLibrary() *Library {
	return NewLibrary(catalog.Default())
}

func productIDs(products []catalog.Product) []int {
	ids := make([]int, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

func supplierNames(suppliers []catalog.Supplier) []string {
	names := make([]string, 0, len(suppliers))
	for _, s := range suppliers {
		names = append(names, s.Name)
	}
	return names
}

func TestProductsByCategory(t *testing.T) {
	lib := newTestLibrary()

	tests := []struct {
		category string
		want     []int
	}{
		{"Mobile", []int{5, 6}},
		{"mobile", []int{5, 6}},
		{"LAPTOP", []int{3, 4}},
		{"tv", []int{1, 2}},
		{"lap", []int{3, 4}},
		{"Electronics", []int{}},
		{"Laptops", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			got := lib.ProductsByCategory(tt.category)
			assert.Equal(t, tt.want, productIDs(got))
			for _, p := range got {
				assert.True(t, catalog.ContainsFold(p.Category, tt.category))
			}
		})
	}
}

func TestProductsByPriceRange(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []int{1, 4, 5, 6}, productIDs(lib.ProductsByPriceRange(40000, 80000)))
	assert.Equal(t, []int{2, 3}, productIDs(lib.ProductsByPriceRange(100000, Unbounded)))
	assert.Equal(t, []int{5}, productIDs(lib.ProductsByPriceRange(0, 45000)), "bounds are inclusive")
	assert.Empty(t, lib.ProductsByPriceRange(1, 10))
}

func TestProductsByCategoryInPriceRange(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []int{1}, productIDs(lib.ProductsByCategoryInPriceRange("TV", 0, 100000)))
	assert.Equal(t, []int{5}, productIDs(lib.ProductsByCategoryInPriceRange("Mobile", 0, 50000)))
	assert.Equal(t, []int{3, 4}, productIDs(lib.ProductsByCategoryInPriceRange("Laptop", 70000, 150000)))
}

func TestProductsByCategoryWithKeyword(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []int{2}, productIDs(lib.ProductsByCategoryWithKeyword("TV", "oled")))
	assert.Equal(t, []int{3}, productIDs(lib.ProductsByCategoryWithKeyword("Laptop", "RTX")))
	assert.Empty(t, lib.ProductsByCategoryWithKeyword("Mobile", "oled"))
}

func TestProductsByBrand(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []int{2}, productIDs(lib.ProductsByBrand("ultraview")))
	assert.Equal(t, []int{3, 6}, productIDs(lib.ProductsByBrand("Hyper")))
	assert.Empty(t, lib.ProductsByBrand("Acme"))
}

func TestProductByName(t *testing.T) {
	lib := newTestLibrary()

	p, err := lib.ProductByName("gaming laptop g15")
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)

	_, err = lib.ProductByName("toaster")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestProductsBySupplierName(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []int{1, 3, 6}, productIDs(lib.ProductsBySupplierName("Vision Traders")))
	assert.Equal(t, []int{1, 3, 6}, productIDs(lib.ProductsBySupplierName("vision")))

	got := lib.ProductsBySupplierName("Nobody")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestProductsSortedByPriceAscending(t *testing.T) {
	lib := newTestLibrary()

	sorted := lib.ProductsSortedByPriceAscending()
	assert.Equal(t, []int{5, 1, 6, 4, 3, 2}, productIDs(sorted))

	mostExpensive, err := lib.MostExpensiveProduct()
	require.NoError(t, err)
	assert.Equal(t, mostExpensive, sorted[len(sorted)-1])

	// The catalog itself stays in insertion order.
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, productIDs(lib.Store().Products.All()))
}

func TestSortIsStableOnTies(t *testing.T) {
	store := catalog.MustNewStore([]catalog.Product{
		{ID: 10, Name: "B", Price: 200, SupplierID: 1},
		{ID: 11, Name: "A", Price: 100, SupplierID: 1},
		{ID: 12, Name: "C", Price: 200, SupplierID: 1},
		{ID: 13, Name: "D", Price: 100, SupplierID: 1},
	}, []catalog.Supplier{{ID: 1, Name: "Acme"}})

	lib := NewLibrary(store)
	assert.Equal(t, []int{11, 13, 10, 12}, productIDs(lib.ProductsSortedByPriceAscending()))
}

func TestExtremaTieBreakFirstEncountered(t *testing.T) {
	store := catalog.MustNewStore([]catalog.Product{
		{ID: 1, Name: "First cheap", Price: 10, Category: "Gadget", SupplierID: 1},
		{ID: 2, Name: "Second cheap", Price: 10, Category: "Gadget", SupplierID: 2},
		{ID: 3, Name: "First pricey", Price: 99, Category: "Gadget", SupplierID: 1},
		{ID: 4, Name: "Second pricey", Price: 99, Category: "Gadget", SupplierID: 2},
	}, []catalog.Supplier{
		{ID: 1, Name: "One", Categories: []string{"A", "B"}},
		{ID: 2, Name: "Two", Categories: []string{"C", "D"}},
	})
	lib := NewLibrary(store)

	cheapest, err := lib.CheapestInCategory("gadget")
	require.NoError(t, err)
	assert.Equal(t, 1, cheapest.ID)

	priciest, err := lib.MostExpensiveProduct()
	require.NoError(t, err)
	assert.Equal(t, 3, priciest.ID)

	most, err := lib.SupplierWithMostOfferedCategories()
	require.NoError(t, err)
	assert.Equal(t, "One", most.Name, "equal counts keep the first leader")

	supplier, err := lib.CheapestOverallSupplier()
	require.NoError(t, err)
	assert.Equal(t, "One", supplier.Name)
}

func TestCheapestInCategory(t *testing.T) {
	lib := newTestLibrary()

	for _, category := range []string{"TV", "Laptop", "Mobile"} {
		t.Run(category, func(t *testing.T) {
			cheapest, err := lib.CheapestInCategory(category)
			require.NoError(t, err)
			for _, p := range lib.ProductsByCategory(category) {
				assert.LessOrEqual(t, cheapest.Price, p.Price)
			}
		})
	}

	laptop, err := lib.CheapestInCategory("Laptop")
	require.NoError(t, err)
	assert.Equal(t, "Business Laptop X1", laptop.Name)

	_, err = lib.CheapestInCategory("Electronics")
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestEmptyCatalog(t *testing.T) {
	lib := NewLibrary(catalog.MustNewStore(nil, nil))

	_, err := lib.MostExpensiveProduct()
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = lib.CheapestProduct()
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = lib.SupplierWithMostOfferedCategories()
	assert.ErrorIs(t, err, ErrEmptyResult)

	_, err = lib.CheapestOverallSupplier()
	assert.ErrorIs(t, err, ErrEmptyResult)

	assert.Empty(t, lib.ProductsSortedByPriceAscending())
	assert.Empty(t, lib.Categories())
}

func TestSuppliers(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, []string{"Nova Supplies", "Vision Traders"}, supplierNames(lib.SuppliersByCategory("Laptops")))
	assert.Empty(t, lib.SuppliersByCategory("Accessories"))
	assert.Equal(t, []string{"Nova Supplies", "Vision Traders"}, supplierNames(lib.SuppliersWithAtLeastCategories(2)))
	assert.Len(t, lib.SuppliersWithAtLeastCategories(1), 3)
	assert.Empty(t, lib.SuppliersWithAtLeastCategories(4))

	s, err := lib.SupplierByID(103)
	require.NoError(t, err)
	assert.Equal(t, "MobileWorld", s.Name)

	_, err = lib.SupplierByID(999)
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	both, err := lib.SupplierOffering("tvs", "mobiles")
	require.NoError(t, err)
	assert.Equal(t, "Vision Traders", both.Name)

	_, err = lib.SupplierOffering("tvs", "accessories")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSupplierWithMostOfferedCategories(t *testing.T) {
	s, err := newTestLibrary().SupplierWithMostOfferedCategories()
	require.NoError(t, err)
	assert.Equal(t, "Vision Traders", s.Name)
	assert.Equal(t, 3, s.CategoryCount())
}

func TestCheapestOverallSupplier(t *testing.T) {
	s, err := newTestLibrary().CheapestOverallSupplier()
	require.NoError(t, err)
	assert.Equal(t, "MobileWorld", s.Name)
}

func TestLatestProduct(t *testing.T) {
	p, err := newTestLibrary().LatestProduct()
	require.NoError(t, err)
	assert.Equal(t, "SmartPhone Ultra Z", p.Name)

	_, err = NewLibrary(catalog.MustNewStore(nil, nil)).LatestProduct()
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"TV", "Laptop", "Mobile"}, newTestLibrary().Categories())
}

func TestQueriesAreIdempotent(t *testing.T) {
	lib := newTestLibrary()

	assert.Equal(t, lib.ProductsByCategory("tv"), lib.ProductsByCategory("tv"))
	assert.Equal(t, lib.ProductsSortedByPriceAscending(), lib.ProductsSortedByPriceAscending())
	assert.Equal(t, lib.SuppliersByCategory("mobiles"), lib.SuppliersByCategory("mobiles"))

	first, err := lib.MostExpensiveProduct()
	require.NoError(t, err)
	second, err := lib.MostExpensiveProduct()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearchProducts(t *testing.T) {
	lib := newTestLibrary()

	tests := []struct {
		name   string
		filter ProductFilter
		want   []int
	}{
		{name: "no filter", filter: ProductFilter{}, want: []int{1, 2, 3, 4, 5, 6}},
		{name: "category", filter: ProductFilter{Category: "laptop"}, want: []int{3, 4}},
		{name: "brand", filter: ProductFilter{Brand: "hyper"}, want: []int{3, 6}},
		{name: "min price", filter: ProductFilter{MinPrice: 100000}, want: []int{2, 3}},
		{name: "price window", filter: ProductFilter{MinPrice: 45000, MaxPrice: 65000}, want: []int{1, 5, 6}},
		{name: "sorted", filter: ProductFilter{SortByPrice: true}, want: []int{5, 1, 6, 4, 3, 2}},
		{name: "combined", filter: ProductFilter{Category: "Mobile", MaxPrice: 50000, SortByPrice: true}, want: []int{5}},
		{name: "nothing", filter: ProductFilter{Category: "Camera"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, productIDs(lib.SearchProducts(tt.filter)))
		})
	}
}
