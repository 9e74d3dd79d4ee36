package catalog

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateID     = errors.New("duplicate record id")
	ErrNegativePrice   = errors.New("negative price")
	ErrUnknownSupplier = errors.New("product references unknown supplier")
)

// Record is implemented by every type a Collection can hold.
type Record[T any] interface {
	Key() int
	clone() T
}

// Collection is a read-only, insertion-ordered set of records keyed by id.
// Every accessor hands out copies so callers cannot mutate the catalog.
type Collection[T Record[T]] struct {
	items []T
	index map[int]int
}

func newCollection[T Record[T]](kind string, items []T) (*Collection[T], error) {
	c := &Collection[T]{
		items: make([]T, 0, len(items)),
		index: make(map[int]int, len(items)),
	}
	for _, item := range items {
		if _, exists := c.index[item.Key()]; exists {
			return nil, fmt.Errorf("%s %d: %w", kind, item.Key(), ErrDuplicateID)
		}
		c.index[item.Key()] = len(c.items)
		c.items = append(c.items, item.clone())
	}
	return c, nil
}

// FindByID returns the record with the given id.
func (c *Collection[T]) FindByID(id int) (T, error) {
	pos, ok := c.index[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("id %d: %w", id, ErrNotFound)
	}
	return c.items[pos].clone(), nil
}

// Filter returns every record matching pred, in insertion order.
func (c *Collection[T]) Filter(pred func(T) bool) []T {
	out := make([]T, 0)
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item.clone())
		}
	}
	return out
}

// First returns the earliest inserted record matching pred.
func (c *Collection[T]) First(pred func(T) bool) (T, error) {
	for _, item := range c.items {
		if pred(item) {
			return item.clone(), nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// All returns every record in insertion order.
func (c *Collection[T]) All() []T {
	return c.Filter(func(T) bool { return true })
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Store owns the product and supplier collections. It is immutable once built
// and safe for concurrent readers.
type Store struct {
	Products  *Collection[Product]
	Suppliers *Collection[Supplier]
}

// NewStore builds a Store and enforces the load-time invariants: unique ids,
// non-negative prices and every product pointing at a known supplier.
func NewStore(products []Product, suppliers []Supplier) (*Store, error) {
	supplierSet, err := newCollection("supplier", suppliers)
	if err != nil {
		return nil, err
	}

	for _, p := range products {
		if p.Price < 0 {
			return nil, fmt.Errorf("product %d (%s): %w", p.ID, p.Name, ErrNegativePrice)
		}
		if _, ok := supplierSet.index[p.SupplierID]; !ok {
			return nil, fmt.Errorf("product %d (%s) supplier %d: %w", p.ID, p.Name, p.SupplierID, ErrUnknownSupplier)
		}
	}

	productSet, err := newCollection("product", products)
	if err != nil {
		return nil, err
	}

	return &Store{Products: productSet, Suppliers: supplierSet}, nil
}

// MustNewStore is like NewStore but panics on invalid input.
func MustNewStore(products []Product, suppliers []Supplier) *Store {
	s, err := NewStore(products, suppliers)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return s
}
