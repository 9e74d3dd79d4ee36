// Package catalog holds the immutable product and supplier records the assistant answers from.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Product is a single catalog item. Price is in the smallest currency unit.
type Product struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description"`
	SupplierID  int    `json:"supplierId"`
}

// Key returns the product identifier.
func (p Product) Key() int { return p.ID }

func (p Product) clone() Product { return p }

// Supplier is a vendor offering one or more product categories.
type Supplier struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ContactInfo string   `json:"contactInfo"`
	Categories  []string `json:"productCategoriesOffered"`
}

// Key returns the supplier identifier.
func (s Supplier) Key() int { return s.ID }

func (s Supplier) clone() Supplier {
	out := s
	out.Categories = append([]string(nil), s.Categories...)
	return out
}

// OfferedCategories renders the offered categories the way they are stored
// externally, e.g. "TVs, Laptops".
func (s Supplier) OfferedCategories() string {
	return strings.Join(s.Categories, ", ")
}

// CategoryCount returns the number of offered categories.
func (s Supplier) CategoryCount() int {
	return len(s.Categories)
}

// ParseCategories splits a comma-delimited category string into its parts.
// Surrounding blanks are trimmed and empty parts dropped.
func ParseCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Fold returns the Unicode case-folded form of s.
func Fold(s string) string {
	// Casers carry state and are not safe for concurrent use.
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
