package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_Default(t *testing.T) {
	store, err := NewStore(DefaultProducts(), DefaultSuppliers())
	require.NoError(t, err)

	assert.Equal(t, 6, store.Products.Len())
	assert.Equal(t, 3, store.Suppliers.Len())
}

func TestNewStore_Invariants(t *testing.T) {
	suppliers := []Supplier{{ID: 1, Name: "Acme", Categories: []string{"TVs"}}}

	tests := []struct {
		name      string
		products  []Product
		suppliers []Supplier
		wantErr   error
	}{
		{
			name:      "unknown supplier",
			products:  []Product{{ID: 1, Name: "TV", Price: 10, SupplierID: 99}},
			suppliers: suppliers,
			wantErr:   ErrUnknownSupplier,
		},
		{
			name: "duplicate product id",
			products: []Product{
				{ID: 1, Name: "TV", Price: 10, SupplierID: 1},
				{ID: 1, Name: "Other TV", Price: 20, SupplierID: 1},
			},
			suppliers: suppliers,
			wantErr:   ErrDuplicateID,
		},
		{
			name:     "duplicate supplier id",
			products: nil,
			suppliers: []Supplier{
				{ID: 1, Name: "Acme"},
				{ID: 1, Name: "Acme Again"},
			},
			wantErr: ErrDuplicateID,
		},
		{
			name:      "negative price",
			products:  []Product{{ID: 1, Name: "TV", Price: -1, SupplierID: 1}},
			suppliers: suppliers,
			wantErr:   ErrNegativePrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.products, tt.suppliers)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestMustNewStore_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustNewStore([]Product{{ID: 1, SupplierID: 5}}, nil)
	})
}

func TestCollection_FindByID(t *testing.T) {
	store := Default()

	p, err := store.Products.FindByID(3)
	require.NoError(t, err)
	assert.Equal(t, "Gaming Laptop G15", p.Name)

	_, err = store.Products.FindByID(42)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err := store.Suppliers.FindByID(102)
	require.NoError(t, err)
	assert.Equal(t, "Vision Traders", s.Name)
}

func TestCollection_FilterKeepsInsertionOrder(t *testing.T) {
	store := Default()

	got := store.Products.Filter(func(p Product) bool { return p.SupplierID == 102 })

	ids := make([]int, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{1, 3, 6}, ids)
}

func TestCollection_FilterNoMatchIsEmpty(t *testing.T) {
	got := Default().Products.Filter(func(Product) bool { return false })
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCollection_First(t *testing.T) {
	store := Default()

	p, err := store.Products.First(func(p Product) bool { return p.Category == "Laptop" })
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)

	_, err = store.Products.First(func(p Product) bool { return p.Category == "Camera" })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_ReturnsCopies(t *testing.T) {
	store := Default()

	s, err := store.Suppliers.FindByID(101)
	require.NoError(t, err)
	s.Categories[0] = "Toasters"
	s.Name = "Changed"

	again, err := store.Suppliers.FindByID(101)
	require.NoError(t, err)
	assert.Equal(t, "Nova Supplies", again.Name)
	assert.Equal(t, []string{"TVs", "Laptops"}, again.Categories)

	all := store.Products.All()
	all[0].Price = 1
	p, _ := store.Products.FindByID(all[0].ID)
	assert.Equal(t, int64(55000), p.Price)
}

func TestNewStore_CopiesInput(t *testing.T) {
	suppliers := DefaultSuppliers()
	store := MustNewStore(DefaultProducts(), suppliers)

	suppliers[0].Categories[0] = "Toasters"

	s, _ := store.Suppliers.FindByID(101)
	assert.Equal(t, "TVs", s.Categories[0])
}

func TestParseCategories(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"TVs, Laptops", []string{"TVs", "Laptops"}},
		{"TVs, Laptops, Mobiles", []string{"TVs", "Laptops", "Mobiles"}},
		{"Mobiles", []string{"Mobiles"}},
		{" TVs ,, ", []string{"TVs"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategories(tt.raw))
		})
	}
}

func TestSupplier_OfferedCategories(t *testing.T) {
	s := Supplier{Categories: ParseCategories("TVs,Laptops,  Mobiles")}
	assert.Equal(t, "TVs, Laptops, Mobiles", s.OfferedCategories())
	assert.Equal(t, 3, s.CategoryCount())
}

func TestContainsFold(t *testing.T) {
	assert.True(t, ContainsFold("Gaming Laptop", "laptop"))
	assert.True(t, ContainsFold("TV", "tv"))
	assert.True(t, ContainsFold("anything", ""))
	assert.False(t, ContainsFold("Mobile", "mobiles"))
	assert.Equal(t, "show me ₹1,00,000", Fold("SHOW me ₹1,00,000"))
}
