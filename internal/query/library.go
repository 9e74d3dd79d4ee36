// Package query provides the named, read-only catalog queries the intent
// handlers are built from.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
)

// ErrEmptyResult indicates a filter-then-reduce query had no candidates.
var ErrEmptyResult = errors.New("empty result")

// Unbounded is an open upper price bound.
const Unbounded int64 = math.MaxInt64

// Library runs queries against a catalog store. It holds no state of its own.
type Library struct {
	store *catalog.Store
}

// NewLibrary creates a new query library over store.
func NewLibrary(store *catalog.Store) *Library {
	return &Library{store: store}
}

// Store returns the underlying catalog store.
func (l *Library) Store() *catalog.Store {
	return l.store
}

// ProductsByCategory returns products whose category contains category, ignoring case.
func (l *Library) ProductsByCategory(category string) []catalog.Product {
	return l.store.Products.Filter(func(p catalog.Product) bool {
		return catalog.ContainsFold(p.Category, category)
	})
}

// ProductsByPriceRange returns products priced within [minPrice, maxPrice].
func (l *Library) ProductsByPriceRange(minPrice, maxPrice int64) []catalog.Product {
	return l.store.Products.Filter(inRange(minPrice, maxPrice))
}

// ProductsByCategoryInPriceRange combines the category and price range filters.
func (l *Library) ProductsByCategoryInPriceRange(category string, minPrice, maxPrice int64) []catalog.Product {
	within := inRange(minPrice, maxPrice)
	return l.store.Products.Filter(func(p catalog.Product) bool {
		return catalog.ContainsFold(p.Category, category) && within(p)
	})
}

// ProductsByCategoryWithKeyword returns products in category whose name or
// description mentions keyword.
func (l *Library) ProductsByCategoryWithKeyword(category, keyword string) []catalog.Product {
	return l.store.Products.Filter(func(p catalog.Product) bool {
		if !catalog.ContainsFold(p.Category, category) {
			return false
		}
		return catalog.ContainsFold(p.Name, keyword) || catalog.ContainsFold(p.Description, keyword)
	})
}

// ProductsByBrand returns products whose brand contains brandPart, ignoring case.
func (l *Library) ProductsByBrand(brandPart string) []catalog.Product {
	return l.store.Products.Filter(func(p catalog.Product) bool {
		return catalog.ContainsFold(p.Brand, brandPart)
	})
}

// ProductByName returns the first product whose name contains namePart.
func (l *Library) ProductByName(namePart string) (catalog.Product, error) {
	p, err := l.store.Products.First(func(p catalog.Product) bool {
		return catalog.ContainsFold(p.Name, namePart)
	})
	if err != nil {
		return catalog.Product{}, fmt.Errorf("product %q: %w", namePart, err)
	}
	return p, nil
}

// ProductsBySupplierID returns the products owned by supplier id.
func (l *Library) ProductsBySupplierID(id int) []catalog.Product {
	return l.store.Products.Filter(func(p catalog.Product) bool {
		return p.SupplierID == id
	})
}

// ProductsBySupplierName resolves the first supplier whose name contains
// namePart and returns its products. No matching supplier yields an empty
// slice, not an error.
func (l *Library) ProductsBySupplierName(namePart string) []catalog.Product {
	s, err := l.store.Suppliers.First(func(s catalog.Supplier) bool {
		return catalog.ContainsFold(s.Name, namePart)
	})
	if err != nil {
		return []catalog.Product{}
	}
	return l.ProductsBySupplierID(s.ID)
}

// ProductsSortedByPriceAscending returns every product ordered by price.
// Equal prices keep catalog order.
func (l *Library) ProductsSortedByPriceAscending() []catalog.Product {
	products := l.store.Products.All()
	slices.SortStableFunc(products, byPrice)
	return products
}

// CheapestInCategory returns the lowest priced product in category. On ties the
// earliest product wins.
func (l *Library) CheapestInCategory(category string) (catalog.Product, error) {
	p, err := minByPrice(l.ProductsByCategory(category))
	if err != nil {
		return catalog.Product{}, fmt.Errorf("cheapest in %q: %w", category, err)
	}
	return p, nil
}

// CheapestProduct returns the lowest priced product in the catalog.
func (l *Library) CheapestProduct() (catalog.Product, error) {
	p, err := minByPrice(l.store.Products.All())
	if err != nil {
		return catalog.Product{}, fmt.Errorf("cheapest product: %w", err)
	}
	return p, nil
}

// MostExpensiveProduct returns the highest priced product. On ties the earliest
// product wins.
func (l *Library) MostExpensiveProduct() (catalog.Product, error) {
	products := l.store.Products.All()
	if len(products) == 0 {
		return catalog.Product{}, fmt.Errorf("most expensive product: %w", ErrEmptyResult)
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.Price > best.Price {
			best = p
		}
	}
	return best, nil
}

// LatestProduct returns the most recently added product, i.e. the last one in
// catalog order.
func (l *Library) LatestProduct() (catalog.Product, error) {
	products := l.store.Products.All()
	if len(products) == 0 {
		return catalog.Product{}, fmt.Errorf("latest product: %w", ErrEmptyResult)
	}
	return products[len(products)-1], nil
}

// Categories returns the distinct product categories in first-seen order.
func (l *Library) Categories() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range l.store.Products.All() {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// SupplierByID returns the supplier with the given id.
func (l *Library) SupplierByID(id int) (catalog.Supplier, error) {
	s, err := l.store.Suppliers.FindByID(id)
	if err != nil {
		return catalog.Supplier{}, fmt.Errorf("supplier: %w", err)
	}
	return s, nil
}

// SupplierFor returns the supplier that owns p.
func (l *Library) SupplierFor(p catalog.Product) (catalog.Supplier, error) {
	return l.SupplierByID(p.SupplierID)
}

// SuppliersByCategory returns suppliers whose offered categories mention category.
func (l *Library) SuppliersByCategory(category string) []catalog.Supplier {
	return l.store.Suppliers.Filter(func(s catalog.Supplier) bool {
		return catalog.ContainsFold(s.OfferedCategories(), category)
	})
}

// SupplierOffering returns the first supplier whose offered categories mention
// every fragment.
func (l *Library) SupplierOffering(fragments ...string) (catalog.Supplier, error) {
	s, err := l.store.Suppliers.First(func(s catalog.Supplier) bool {
		offered := s.OfferedCategories()
		for _, f := range fragments {
			if !catalog.ContainsFold(offered, f) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return catalog.Supplier{}, fmt.Errorf("supplier offering %v: %w", fragments, err)
	}
	return s, nil
}

// SupplierWithMostOfferedCategories returns the supplier offering the most
// categories. A later supplier only replaces the leader with a strictly greater
// count.
func (l *Library) SupplierWithMostOfferedCategories() (catalog.Supplier, error) {
	suppliers := l.store.Suppliers.All()
	if len(suppliers) == 0 {
		return catalog.Supplier{}, fmt.Errorf("supplier with most categories: %w", ErrEmptyResult)
	}
	best := suppliers[0]
	for _, s := range suppliers[1:] {
		if s.CategoryCount() > best.CategoryCount() {
			best = s
		}
	}
	return best, nil
}

// SuppliersWithAtLeastCategories returns suppliers offering minCount or more categories.
func (l *Library) SuppliersWithAtLeastCategories(minCount int) []catalog.Supplier {
	return l.store.Suppliers.Filter(func(s catalog.Supplier) bool {
		return s.CategoryCount() >= minCount
	})
}

// CheapestOverallSupplier returns the supplier owning the globally cheapest product.
func (l *Library) CheapestOverallSupplier() (catalog.Supplier, error) {
	p, err := l.CheapestProduct()
	if err != nil {
		return catalog.Supplier{}, err
	}
	return l.SupplierFor(p)
}

// ProductFilter narrows a product listing. Zero fields do not filter; a
// MaxPrice of zero means no upper bound.
type ProductFilter struct {
	Category    string
	Brand       string
	MinPrice    int64
	MaxPrice    int64
	SortByPrice bool
}

// SearchProducts returns the products matching every set field of f, in
// catalog order or by ascending price when f.SortByPrice is set.
func (l *Library) SearchProducts(f ProductFilter) []catalog.Product {
	maxPrice := f.MaxPrice
	if maxPrice == 0 {
		maxPrice = Unbounded
	}
	within := inRange(f.MinPrice, maxPrice)

	products := l.store.Products.Filter(func(p catalog.Product) bool {
		if f.Category != "" && !catalog.ContainsFold(p.Category, f.Category) {
			return false
		}
		if f.Brand != "" && !catalog.ContainsFold(p.Brand, f.Brand) {
			return false
		}
		return within(p)
	})
	if f.SortByPrice {
		slices.SortStableFunc(products, byPrice)
	}
	return products
}

func inRange(minPrice, maxPrice int64) func(catalog.Product) bool {
	return func(p catalog.Product) bool {
		return p.Price >= minPrice && p.Price <= maxPrice
	}
}

func byPrice(a, b catalog.Product) int {
	return cmp.Compare(a.Price, b.Price)
}

func minByPrice(products []catalog.Product) (catalog.Product, error) {
	if len(products) == 0 {
		return catalog.Product{}, ErrEmptyResult
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.Price < best.Price {
			best = p
		}
	}
	return best, nil
}
