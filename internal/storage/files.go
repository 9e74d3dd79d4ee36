package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"gopkg.in/yaml.v3"
)

// CSV file names inside a catalog directory.
const (
	ProductsCSV  = "products.csv"
	SuppliersCSV = "suppliers.csv"
)

// ReadYAML decodes a dataset from r.
func ReadYAML(r io.Reader) (Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return Dataset{}, fmt.Errorf("decode catalog yaml: %w", err)
	}
	return d, nil
}

// LoadYAML reads a dataset from a YAML file.
func LoadYAML(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	return ReadYAML(f)
}

// WriteYAML encodes d to w.
func WriteYAML(w io.Writer, d Dataset) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode catalog yaml: %w", err)
	}
	return enc.Close()
}

// ReadCSV decodes products and suppliers from two CSV streams with header rows.
func ReadCSV(products, suppliers io.Reader) (Dataset, error) {
	var d Dataset
	if err := gocsv.Unmarshal(products, &d.Products); err != nil {
		return Dataset{}, fmt.Errorf("decode products csv: %w", err)
	}
	if err := gocsv.Unmarshal(suppliers, &d.Suppliers); err != nil {
		return Dataset{}, fmt.Errorf("decode suppliers csv: %w", err)
	}
	return d, nil
}

// LoadCSV reads products.csv and suppliers.csv from dir.
func LoadCSV(dir string) (Dataset, error) {
	pf, err := os.Open(filepath.Join(dir, ProductsCSV))
	if err != nil {
		return Dataset{}, fmt.Errorf("open products csv: %w", err)
	}
	defer pf.Close()

	sf, err := os.Open(filepath.Join(dir, SuppliersCSV))
	if err != nil {
		return Dataset{}, fmt.Errorf("open suppliers csv: %w", err)
	}
	defer sf.Close()

	return ReadCSV(pf, sf)
}

// WriteCSV encodes products and suppliers as CSV with header rows.
func WriteCSV(products, suppliers io.Writer, d Dataset) error {
	if err := gocsv.Marshal(d.Products, products); err != nil {
		return fmt.Errorf("encode products csv: %w", err)
	}
	if err := gocsv.Marshal(d.Suppliers, suppliers); err != nil {
		return fmt.Errorf("encode suppliers csv: %w", err)
	}
	return nil
}

// SaveCSV writes products.csv and suppliers.csv into dir, creating it if needed.
func SaveCSV(dir string, d Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}

	pf, err := os.Create(filepath.Join(dir, ProductsCSV))
	if err != nil {
		return fmt.Errorf("create products csv: %w", err)
	}
	defer pf.Close()

	sf, err := os.Create(filepath.Join(dir, SuppliersCSV))
	if err != nil {
		return fmt.Errorf("create suppliers csv: %w", err)
	}
	defer sf.Close()

	return WriteCSV(pf, sf, d)
}
