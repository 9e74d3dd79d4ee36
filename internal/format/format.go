// Package format renders catalog query results into the fixed textual layouts
// returned to the user.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
)

// CurrencySymbol prefixes every rendered price.
const CurrencySymbol = "₹"

// Price renders an amount with the currency symbol and Indian digit grouping,
// e.g. 120000 becomes "₹1,20,000".
func Price(amount int64) string {
	return CurrencySymbol + groupDigits(amount)
}

// groupDigits groups the last three digits, then every two before them.
func groupDigits(amount int64) string {
	sign := ""
	digits := strconv.FormatInt(amount, 10)
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return sign + strings.Join(groups, ",") + "," + tail
}

// ProductLine renders "<name> – <brand>, <price>".
func ProductLine(p catalog.Product) string {
	return fmt.Sprintf("%s – %s, %s", p.Name, p.Brand, Price(p.Price))
}

// ProductLines renders one ProductLine per product. An empty list renders as "".
func ProductLines(products []catalog.Product) string {
	return Lines(products, ProductLine)
}

// ProductDetails renders the multi-line detail block for p and its supplier.
func ProductDetails(p catalog.Product, s catalog.Supplier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Product Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Brand: %s\n", p.Brand)
	fmt.Fprintf(&b, "Price: %s\n", Price(p.Price))
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	fmt.Fprintf(&b, "Description: %s\n", p.Description)
	fmt.Fprintf(&b, "Supplier: %s (%s)", s.Name, s.ContactInfo)
	return b.String()
}

// SupplierContactLine renders "<name> – Contact: <contact>" with an optional
// trailing note such as "(Offers Accessories)".
func SupplierContactLine(s catalog.Supplier, note string) string {
	line := fmt.Sprintf("%s – Contact: %s", s.Name, s.ContactInfo)
	if note != "" {
		line += " " + note
	}
	return line
}

// SupplierContactLines renders one SupplierContactLine per supplier.
func SupplierContactLines(suppliers []catalog.Supplier, note string) string {
	return Lines(suppliers, func(s catalog.Supplier) string {
		return SupplierContactLine(s, note)
	})
}

// SupplierOffersLine renders "<name> – Offers <categories>".
func SupplierOffersLine(s catalog.Supplier) string {
	return fmt.Sprintf("%s – Offers %s", s.Name, s.OfferedCategories())
}

// SupplierCategoriesLine renders "<name> – Offers <n> product categories (<categories>)".
func SupplierCategoriesLine(s catalog.Supplier) string {
	return fmt.Sprintf("%s – Offers %d product categories (%s)", s.Name, s.CategoryCount(), s.OfferedCategories())
}

// GroupLine renders one grouped summary line: "<group>: <name> – <price>".
func GroupLine(group string, p catalog.Product) string {
	return fmt.Sprintf("%s: %s – %s", group, p.Name, Price(p.Price))
}

// CatalogRow renders a tab-separated product and supplier row.
func CatalogRow(p catalog.Product, s catalog.Supplier) string {
	return strings.Join([]string{p.Name, p.Brand, Price(p.Price), s.Name}, "\t")
}

// Row is one line of a comparison table.
type Row struct {
	Feature   string `json:"feature"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// ComparisonTable renders a tab-separated comparison of two items.
func ComparisonTable(primary, secondary string, rows []Row) string {
	var b strings.Builder
	b.WriteString("Comparison Table:\n\n")
	b.WriteString(strings.Join([]string{"Feature", primary, secondary}, "\t"))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(strings.Join([]string{r.Feature, r.Primary, r.Secondary}, "\t"))
	}
	return b.String()
}

// Lines renders items one per line. An empty slice renders as "".
func Lines[T any](items []T, render func(T) string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, render(item))
	}
	return strings.Join(out, "\n")
}
