package catalog

// DefaultProducts returns the built-in product records.
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: `Smart LED TV 55"`, Brand: "VisionMax", Price: 55000, Category: "TV", Description: "4K UHD Smart TV with HDR support", SupplierID: 102},
		{ID: 2, Name: `OLED TV 65"`, Brand: "UltraView", Price: 125000, Category: "TV", Description: "OLED display with Dolby Vision", SupplierID: 101},
		{ID: 3, Name: "Gaming Laptop G15", Brand: "HyperTech", Price: 120000, Category: "Laptop", Description: "High-end gaming laptop with RTX graphics", SupplierID: 102},
		{ID: 4, Name: "Business Laptop X1", Brand: "TechNova", Price: 75000, Category: "Laptop", Description: "Lightweight ultrabook with SSD", SupplierID: 101},
		{ID: 5, Name: "SmartPhone X20", Brand: "MobileX", Price: 45000, Category: "Mobile", Description: "5G smartphone with AMOLED display", SupplierID: 103},
		{ID: 6, Name: "SmartPhone Ultra Z", Brand: "HyperMobile", Price: 65000, Category: "Mobile", Description: "Flagship phone with AI-enhanced camera", SupplierID: 102},
	}
}

// DefaultSuppliers returns the built-in supplier records.
func DefaultSuppliers() []Supplier {
	return []Supplier{
		{ID: 101, Name: "Nova Supplies", ContactInfo: "nova@example.com, +91-9876543210", Categories: ParseCategories("TVs, Laptops")},
		{ID: 102, Name: "Vision Traders", ContactInfo: "vision@example.com, +91-8765432109", Categories: ParseCategories("TVs, Laptops, Mobiles")},
		{ID: 103, Name: "MobileWorld", ContactInfo: "mobile@example.com, +91-7654321098", Categories: ParseCategories("Mobiles")},
	}
}

// Default returns a Store over the built-in dataset.
func Default() *Store {
	return MustNewStore(DefaultProducts(), DefaultSuppliers())
}
