package intent

import (
	"fmt"
	"strings"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/comparison"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
)

// Rule names.
const (
	RuleMobilePhones            = "mobile_phones"
	RuleTVsUnderPrice           = "tvs_under_price"
	RuleLaptopSuppliers         = "laptop_suppliers"
	RuleGamingLaptopDetails     = "gaming_laptop_details"
	RuleTVAndMobileSupplier     = "tv_and_mobile_supplier"
	RuleMidRangeProducts        = "mid_range_products"
	RuleCheapestPerCategory     = "cheapest_per_category"
	RuleVisionTradersProducts   = "vision_traders_products"
	RuleSupplierMostCategories  = "supplier_most_categories"
	RuleOLEDTVs                 = "oled_tvs"
	RuleProductsByPrice         = "products_by_price"
	RuleAccessorySuppliers      = "accessory_suppliers"
	RulePremiumProducts         = "premium_products"
	RuleCheapestLaptopDetails   = "cheapest_laptop_details"
	RuleLaptopsInRange          = "laptops_in_range"
	RuleUltraViewSellers        = "ultraview_sellers"
	RuleElectronicsProducts     = "electronics_products"
	RuleMostExpensiveProduct    = "most_expensive_product"
	RuleOutOfStock              = "out_of_stock"
	RuleBudgetMobile            = "budget_mobile"
	RuleCheapestProductSupplier = "cheapest_product_supplier"
	RuleCompareLaptops          = "compare_laptops"
	RuleBestValueLaptop         = "best_value_laptop"
	RuleMultiCategorySuppliers  = "multi_category_suppliers"
	RuleProductsWithSuppliers   = "products_with_suppliers"
	RuleMostPopularProduct      = "most_popular_product"
	RuleNewestProduct           = "newest_product"
	RuleLaptopSummary           = "laptop_summary"
	RuleBestElectronicsSupplier = "best_electronics_supplier"
	RuleLaptopDiscounts         = "laptop_discounts"
)

// Canned answers for questions the catalog holds no data for.
const (
	outOfStockAnswer = "Currently, no products are marked as out of stock."
	popularAnswer    = "Gaming Laptop G15 – Most searched & frequently purchased"
)

// DefaultRules returns the assistant's rule table. Order matters: when
// triggers overlap the earlier rule answers.
func DefaultRules(lib *query.Library) []Rule {
	h := &handlers{lib: lib}

	return []Rule{
		{RuleMobilePhones, "show me all mobile phones", h.productList(func() []catalog.Product {
			return lib.ProductsByCategory("Mobile")
		})},
		{RuleTVsUnderPrice, "list all tv products under ₹1,00,000", h.productList(func() []catalog.Product {
			return lib.ProductsByCategoryInPriceRange("TV", 0, 100000)
		})},
		{RuleLaptopSuppliers, "which suppliers provide laptops", func() (string, error) {
			return format.SupplierContactLines(lib.SuppliersByCategory("Laptops"), ""), nil
		}},
		{RuleGamingLaptopDetails, "give me details of gaming laptop g15", h.productDetails(func() (catalog.Product, error) {
			return lib.ProductByName("gaming laptop g15")
		})},
		{RuleTVAndMobileSupplier, "which supplier offers both TVs and mobiles", func() (string, error) {
			s, err := lib.SupplierOffering("tvs", "mobiles")
			if err != nil {
				return "", err
			}
			return format.SupplierOffersLine(s), nil
		}},
		{RuleMidRangeProducts, "show me all products between ₹40,000 and ₹80,000", h.productList(func() []catalog.Product {
			return lib.ProductsByPriceRange(40000, 80000)
		})},
		{RuleCheapestPerCategory, "what are the cheapest products in each category", h.cheapestPerCategory},
		{RuleVisionTradersProducts, "show me products from vision traders", h.productList(func() []catalog.Product {
			return lib.ProductsBySupplierName("Vision Traders")
		})},
		{RuleSupplierMostCategories, "which supplier has the most products", func() (string, error) {
			s, err := lib.SupplierWithMostOfferedCategories()
			if err != nil {
				return "", err
			}
			return format.SupplierCategoriesLine(s), nil
		}},
		{RuleOLEDTVs, "do you have any OLED TVs", h.productList(func() []catalog.Product {
			return lib.ProductsByCategoryWithKeyword("TV", "oled")
		})},
		{RuleProductsByPrice, "show me all products sorted by price (low to high)", h.productList(lib.ProductsSortedByPriceAscending)},
		{RuleAccessorySuppliers, "which supplier provides accessories", func() (string, error) {
			return format.SupplierContactLines(lib.SuppliersByCategory("Accessories"), "(Offers Accessories)"), nil
		}},
		{RulePremiumProducts, "show me products above ₹1,00,000", h.productList(func() []catalog.Product {
			return lib.ProductsByPriceRange(100000, query.Unbounded)
		})},
		{RuleCheapestLaptopDetails, "give me the details of the cheapest laptop", h.productDetails(func() (catalog.Product, error) {
			return lib.CheapestInCategory("Laptop")
		})},
		{RuleLaptopsInRange, "which laptops are available from ₹70,000 to ₹1,50,000", h.productList(func() []catalog.Product {
			return lib.ProductsByCategoryInPriceRange("Laptop", 70000, 150000)
		})},
		{RuleUltraViewSellers, "who sells UltraView brand products", h.brandSellers("UltraView")},
		{RuleElectronicsProducts, "list all products in the Electronics category", h.productList(func() []catalog.Product {
			return lib.ProductsByCategory("Electronics")
		})},
		{RuleMostExpensiveProduct, "what is the most expensive product", func() (string, error) {
			p, err := lib.MostExpensiveProduct()
			if err != nil {
				return "", err
			}
			return format.ProductLine(p), nil
		}},
		{RuleOutOfStock, "which products are out of stock", static(outOfStockAnswer)},
		{RuleBudgetMobile, "find me a mobile under ₹50,000", h.productList(func() []catalog.Product {
			return lib.ProductsByCategoryInPriceRange("Mobile", 0, 50000)
		})},
		{RuleCheapestProductSupplier, "which supplier offers the cheapest product", h.cheapestProductSupplier},
		{RuleCompareLaptops, "can I compare Gaming Laptop G15 and Business Laptop X1", h.compareLaptops},
		{RuleBestValueLaptop, "find me the best value-for-money laptop", h.annotatedProducts(
			annotation{"Business Laptop X1", "(Best for business users)"},
			annotation{"Gaming Laptop G15", "(Best for high performance)"},
		)},
		{RuleMultiCategorySuppliers, "which suppliers sell at least 2 categories of products", func() (string, error) {
			return format.Lines(lib.SuppliersWithAtLeastCategories(2), format.SupplierCategoriesLine), nil
		}},
		{RuleProductsWithSuppliers, "list all products along with their suppliers", h.productsWithSuppliers},
		{RuleMostPopularProduct, "what is the most popular product", static(popularAnswer)},
		{RuleNewestProduct, "what is the newest product in the database", func() (string, error) {
			p, err := lib.LatestProduct()
			if err != nil {
				return "", err
			}
			return format.ProductLine(p) + " (Latest release)", nil
		}},
		{RuleLaptopSummary, "can you summarize all laptop options", h.categorySummary("Laptop", "laptops")},
		{RuleBestElectronicsSupplier, "find me the best supplier for electronics", func() (string, error) {
			s, err := lib.SupplierWithMostOfferedCategories()
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s – Offers a wide range of electronics (%s)", s.Name, s.OfferedCategories()), nil
		}},
		{RuleLaptopDiscounts, "do you have any discounts on laptops", h.promotion("Business Laptop X1", "(10% off this week)")},
	}
}

type handlers struct {
	lib *query.Library
}

func static(answer string) Handler {
	return func() (string, error) { return answer, nil }
}

func (h *handlers) productList(list func() []catalog.Product) Handler {
	return func() (string, error) {
		return format.ProductLines(list()), nil
	}
}

func (h *handlers) productDetails(find func() (catalog.Product, error)) Handler {
	return func() (string, error) {
		p, err := find()
		if err != nil {
			return "", err
		}
		s, err := h.lib.SupplierFor(p)
		if err != nil {
			return "", err
		}
		return format.ProductDetails(p, s), nil
	}
}

func (h *handlers) cheapestPerCategory() (string, error) {
	categories := h.lib.Categories()
	lines := make([]string, 0, len(categories))
	for _, category := range categories {
		p, err := h.lib.CheapestInCategory(category)
		if err != nil {
			return "", err
		}
		lines = append(lines, format.GroupLine(category, p))
	}
	return strings.Join(lines, "\n"), nil
}

// brandSellers lists each supplier of a brand once, in order of first product.
func (h *handlers) brandSellers(brand string) Handler {
	return func() (string, error) {
		seen := make(map[int]struct{})
		var sellers []catalog.Supplier
		for _, p := range h.lib.ProductsByBrand(brand) {
			if _, ok := seen[p.SupplierID]; ok {
				continue
			}
			seen[p.SupplierID] = struct{}{}
			s, err := h.lib.SupplierFor(p)
			if err != nil {
				return "", err
			}
			sellers = append(sellers, s)
		}
		return format.SupplierContactLines(sellers, fmt.Sprintf("(Sells %s Products)", brand)), nil
	}
}

// cheapestProductSupplier names the owner of the cheapest product, everything
// it supplies, and the cheapest product's price.
func (h *handlers) cheapestProductSupplier() (string, error) {
	cheapest, err := h.lib.CheapestProduct()
	if err != nil {
		return "", err
	}
	s, err := h.lib.SupplierFor(cheapest)
	if err != nil {
		return "", err
	}

	products := h.lib.ProductsBySupplierID(s.ID)
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return fmt.Sprintf("%s – Offers %s (%s)", s.Name, strings.Join(names, ", "), format.Price(cheapest.Price)), nil
}

func (h *handlers) compareLaptops() (string, error) {
	gaming, err := h.lib.ProductByName("gaming laptop g15")
	if err != nil {
		return "", err
	}
	business, err := h.lib.ProductByName("business laptop x1")
	if err != nil {
		return "", err
	}
	return comparison.Table(gaming, business, LaptopComparisonNotes()...), nil
}

// LaptopComparisonNotes returns the curated rows shown when the gaming laptop
// is compared with the business laptop, in that column order.
func LaptopComparisonNotes() []format.Row {
	return []format.Row{
		{Feature: "Graphics", Primary: "RTX Graphics", Secondary: "Integrated GPU"},
		{Feature: "Usage", Primary: "Gaming", Secondary: "Business"},
	}
}

func (h *handlers) productsWithSuppliers() (string, error) {
	products := h.lib.Store().Products.All()
	lines := make([]string, 0, len(products))
	for _, p := range products {
		s, err := h.lib.SupplierFor(p)
		if err != nil {
			return "", err
		}
		lines = append(lines, format.CatalogRow(p, s))
	}
	return strings.Join(lines, "\n"), nil
}

type annotation struct {
	product string
	note    string
}

// annotatedProducts renders a product line plus a curated note per entry.
func (h *handlers) annotatedProducts(entries ...annotation) Handler {
	return func() (string, error) {
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			p, err := h.lib.ProductByName(e.product)
			if err != nil {
				return "", err
			}
			lines = append(lines, format.ProductLine(p)+" "+e.note)
		}
		return strings.Join(lines, "\n"), nil
	}
}

func (h *handlers) promotion(product, note string) Handler {
	return func() (string, error) {
		p, err := h.lib.ProductByName(product)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s – %s %s", p.Name, format.Price(p.Price), note), nil
	}
}

// categorySummary lists a category cheapest first with each description.
func (h *handlers) categorySummary(category, plural string) Handler {
	return func() (string, error) {
		var products []catalog.Product
		for _, p := range h.lib.ProductsSortedByPriceAscending() {
			if catalog.ContainsFold(p.Category, category) {
				products = append(products, p)
			}
		}
		if len(products) == 0 {
			return "", query.ErrEmptyResult
		}

		var b strings.Builder
		fmt.Fprintf(&b, "We have %d %s available:\n", len(products), plural)
		for _, p := range products {
			fmt.Fprintf(&b, "\n%s (%s) – %s.", p.Name, format.Price(p.Price), p.Description)
		}
		return b.String(), nil
	}
}
