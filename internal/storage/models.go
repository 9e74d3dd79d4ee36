// Package storage loads and persists catalog records from YAML, CSV and SQL sources.
package storage

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
)

// ErrInvalidRecord indicates a record failed field validation.
var ErrInvalidRecord = errors.New("invalid catalog record")

// ProductRecord is the external representation of a product.
type ProductRecord struct {
	ID          int    `yaml:"id" csv:"id" validate:"required,gt=0"`
	Name        string `yaml:"name" csv:"name" validate:"required"`
	Brand       string `yaml:"brand" csv:"brand" validate:"required"`
	Price       int64  `yaml:"price" csv:"price" validate:"gte=0"`
	Category    string `yaml:"category" csv:"category" validate:"required"`
	Description string `yaml:"description" csv:"description"`
	SupplierID  int    `yaml:"supplier_id" csv:"supplier_id" validate:"required,gt=0"`
}

// SupplierRecord is the external representation of a supplier. Offered
// categories are stored as a comma-delimited string.
type SupplierRecord struct {
	ID                       int    `yaml:"id" csv:"id" validate:"required,gt=0"`
	Name                     string `yaml:"name" csv:"name" validate:"required"`
	ContactInfo              string `yaml:"contact_info" csv:"contact_info" validate:"required"`
	ProductCategoriesOffered string `yaml:"product_categories_offered" csv:"product_categories_offered"`
}

// Dataset is a full catalog in external form.
type Dataset struct {
	Products  []ProductRecord  `yaml:"products"`
	Suppliers []SupplierRecord `yaml:"suppliers"`
}

var validate = validator.New()

// Store validates every record and builds the catalog store, which enforces
// the cross-record invariants.
func (d Dataset) Store() (*catalog.Store, error) {
	products := make([]catalog.Product, 0, len(d.Products))
	for i, r := range d.Products {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("product #%d (id %d): %w: %v", i+1, r.ID, ErrInvalidRecord, err)
		}
		products = append(products, r.toCatalog())
	}

	suppliers := make([]catalog.Supplier, 0, len(d.Suppliers))
	for i, r := range d.Suppliers {
		if err := validate.Struct(r); err != nil {
			return nil, fmt.Errorf("supplier #%d (id %d): %w: %v", i+1, r.ID, ErrInvalidRecord, err)
		}
		suppliers = append(suppliers, r.toCatalog())
	}

	store, err := catalog.NewStore(products, suppliers)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return store, nil
}

// DatasetFromStore converts a catalog store back into external records.
func DatasetFromStore(store *catalog.Store) Dataset {
	var d Dataset
	for _, p := range store.Products.All() {
		d.Products = append(d.Products, ProductRecord{
			ID:          p.ID,
			Name:        p.Name,
			Brand:       p.Brand,
			Price:       p.Price,
			Category:    p.Category,
			Description: p.Description,
			SupplierID:  p.SupplierID,
		})
	}
	for _, s := range store.Suppliers.All() {
		d.Suppliers = append(d.Suppliers, SupplierRecord{
			ID:                       s.ID,
			Name:                     s.Name,
			ContactInfo:              s.ContactInfo,
			ProductCategoriesOffered: s.OfferedCategories(),
		})
	}
	return d
}

func (r ProductRecord) toCatalog() catalog.Product {
	return catalog.Product{
		ID:          r.ID,
		Name:        r.Name,
		Brand:       r.Brand,
		Price:       r.Price,
		Category:    r.Category,
		Description: r.Description,
		SupplierID:  r.SupplierID,
	}
}

func (r SupplierRecord) toCatalog() catalog.Supplier {
	return catalog.Supplier{
		ID:          r.ID,
		Name:        r.Name,
		ContactInfo: r.ContactInfo,
		Categories:  catalog.ParseCategories(r.ProductCategoriesOffered),
	}
}
