package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
)

func TestPrice(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "₹0"},
		{999, "₹999"},
		{1000, "₹1,000"},
		{45000, "₹45,000"},
		{100000, "₹1,00,000"},
		{120000, "₹1,20,000"},
		{125000, "₹1,25,000"},
		{1500000, "₹15,00,000"},
		{12345678, "₹1,23,45,678"},
		{-75000, "₹-75,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Price(tt.amount))
		})
	}
}

var (
	g15 = catalog.Product{
		ID: 3, Name: "Gaming Laptop G15", Brand: "HyperTech", Price: 120000,
		Category: "Laptop", Description: "High-end gaming laptop with RTX graphics", SupplierID: 102,
	}
	visionTraders = catalog.Supplier{
		ID: 102, Name: "Vision Traders", ContactInfo: "vision@example.com, +91-8765432109",
		Categories: []string{"TVs", "Laptops", "Mobiles"},
	}
)

func TestProductLine(t *testing.T) {
	assert.Equal(t, "Gaming Laptop G15 – HyperTech, ₹1,20,000", ProductLine(g15))
}

func TestProductLines(t *testing.T) {
	x1 := catalog.Product{Name: "Business Laptop X1", Brand: "TechNova", Price: 75000}

	assert.Equal(t,
		"Gaming Laptop G15 – HyperTech, ₹1,20,000\nBusiness Laptop X1 – TechNova, ₹75,000",
		ProductLines([]catalog.Product{g15, x1}))
	assert.Equal(t, "", ProductLines(nil))
}

func TestProductDetails(t *testing.T) {
	want := "Product Name: Gaming Laptop G15\n" +
		"Brand: HyperTech\n" +
		"Price: ₹1,20,000\n" +
		"Category: Laptop\n" +
		"Description: High-end gaming laptop with RTX graphics\n" +
		"Supplier: Vision Traders (vision@example.com, +91-8765432109)"

	assert.Equal(t, want, ProductDetails(g15, visionTraders))
}

func TestSupplierLines(t *testing.T) {
	assert.Equal(t, "Vision Traders – Contact: vision@example.com, +91-8765432109",
		SupplierContactLine(visionTraders, ""))
	assert.Equal(t, "Vision Traders – Contact: vision@example.com, +91-8765432109 (Offers Accessories)",
		SupplierContactLine(visionTraders, "(Offers Accessories)"))
	assert.Equal(t, "Vision Traders – Offers TVs, Laptops, Mobiles", SupplierOffersLine(visionTraders))
	assert.Equal(t, "Vision Traders – Offers 3 product categories (TVs, Laptops, Mobiles)",
		SupplierCategoriesLine(visionTraders))
	assert.Equal(t, "", SupplierContactLines(nil, "note"))
}

func TestGroupLine(t *testing.T) {
	assert.Equal(t, "Laptop: Gaming Laptop G15 – ₹1,20,000", GroupLine("Laptop", g15))
}

func TestCatalogRow(t *testing.T) {
	assert.Equal(t, "Gaming Laptop G15\tHyperTech\t₹1,20,000\tVision Traders", CatalogRow(g15, visionTraders))
}

func TestComparisonTable(t *testing.T) {
	got := ComparisonTable("A", "B", []Row{
		{Feature: "Brand", Primary: "X", Secondary: "Y"},
		{Feature: "Usage", Primary: "Gaming", Secondary: "Business"},
	})

	assert.Equal(t, "Comparison Table:\n\nFeature\tA\tB\nBrand\tX\tY\nUsage\tGaming\tBusiness", got)
	assert.Equal(t, "Comparison Table:\n\nFeature\tA\tB", ComparisonTable("A", "B", nil))
}
