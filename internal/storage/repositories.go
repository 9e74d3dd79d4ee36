package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Schema creates the catalog tables. It is valid for both SQLite and Postgres.
const Schema = `
CREATE TABLE IF NOT EXISTS suppliers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	contact_info TEXT NOT NULL,
	product_categories_offered TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	brand TEXT NOT NULL,
	price BIGINT NOT NULL CHECK (price >= 0),
	category TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	supplier_id INTEGER NOT NULL REFERENCES suppliers(id)
);
`

// Open opens and pings a SQL database. driver is "sqlite3" or "postgres".
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// CatalogRepository reads and writes catalog records in SQL tables.
type CatalogRepository struct {
	db DB
}

// NewCatalogRepository creates a new catalog repository.
func NewCatalogRepository(db DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Migrate creates the catalog tables if they do not exist.
func (r *CatalogRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create catalog schema: %w", err)
	}
	return nil
}

// ListProducts lists all products ordered by id.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]ProductRecord, error) {
	query := `
		SELECT id, name, brand, price, category, description, supplier_id
		FROM products
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []ProductRecord
	for rows.Next() {
		var p ProductRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Category, &p.Description, &p.SupplierID); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListSuppliers lists all suppliers ordered by id.
func (r *CatalogRepository) ListSuppliers(ctx context.Context) ([]SupplierRecord, error) {
	query := `
		SELECT id, name, contact_info, product_categories_offered
		FROM suppliers
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []SupplierRecord
	for rows.Next() {
		var s SupplierRecord
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactInfo, &s.ProductCategoriesOffered); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, rows.Err()
}

// Dataset reads the whole catalog.
func (r *CatalogRepository) Dataset(ctx context.Context) (Dataset, error) {
	suppliers, err := r.ListSuppliers(ctx)
	if err != nil {
		return Dataset{}, err
	}
	products, err := r.ListProducts(ctx)
	if err != nil {
		return Dataset{}, err
	}
	return Dataset{Products: products, Suppliers: suppliers}, nil
}

// CountProducts returns the number of stored products.
func (r *CatalogRepository) CountProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Insert writes every record of d. Suppliers go first so product foreign keys resolve.
func (r *CatalogRepository) Insert(ctx context.Context, d Dataset) error {
	for _, s := range d.Suppliers {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO suppliers (id, name, contact_info, product_categories_offered)
			VALUES ($1, $2, $3, $4)
		`, s.ID, s.Name, s.ContactInfo, s.ProductCategoriesOffered)
		if err != nil {
			return fmt.Errorf("insert supplier %d: %w", s.ID, err)
		}
	}

	for _, p := range d.Products {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO products (id, name, brand, price, category, description, supplier_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, p.ID, p.Name, p.Brand, p.Price, p.Category, p.Description, p.SupplierID)
		if err != nil {
			return fmt.Errorf("insert product %d: %w", p.ID, err)
		}
	}
	return nil
}

// SeedIfEmpty migrates the schema and inserts d when no products exist yet.
// It reports whether rows were written.
func (r *CatalogRepository) SeedIfEmpty(ctx context.Context, d Dataset) (bool, error) {
	if err := r.Migrate(ctx); err != nil {
		return false, err
	}
	n, err := r.CountProducts(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if err := r.Insert(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}
