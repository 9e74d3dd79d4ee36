package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/catalog"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/format"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/observability"
	"github.com/spherical-ai/spherical/libs/catalog-assistant/internal/query"
)

// CatalogHandler serves read-only catalog listings.
type CatalogHandler struct {
	logger *observability.Logger
	lib    *query.Library
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(logger *observability.Logger, lib *query.Library) *CatalogHandler {
	return &CatalogHandler{logger: logger, lib: lib}
}

// ProductQueryDTO holds the product listing filters.
type ProductQueryDTO struct {
	Category string `validate:"omitempty,max=64"`
	Brand    string `validate:"omitempty,max=64"`
	MinPrice int64  `validate:"gte=0"`
	MaxPrice int64  `validate:"gte=0"`
	Sort     string `validate:"omitempty,oneof=price"`
}

// ProductDTO is a product with its display price.
type ProductDTO struct {
	catalog.Product
	DisplayPrice string `json:"displayPrice"`
}

// ProductListDTO is the product listing response.
type ProductListDTO struct {
	Products []ProductDTO `json:"products"`
	Count    int          `json:"count"`
}

// ProductDetailDTO is a product with its supplier.
type ProductDetailDTO struct {
	ProductDTO
	Supplier catalog.Supplier `json:"supplier"`
	Details  string           `json:"details"`
}

// SupplierListDTO is the supplier listing response.
type SupplierListDTO struct {
	Suppliers []catalog.Supplier `json:"suppliers"`
	Count     int                `json:"count"`
}

// SupplierDetailDTO is a supplier with the products it owns.
type SupplierDetailDTO struct {
	catalog.Supplier
	Products []ProductDTO `json:"products"`
}

// ListProducts handles GET /catalog/products.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseProductQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if q.MaxPrice > 0 && q.MaxPrice < q.MinPrice {
		writeError(w, http.StatusBadRequest, "invalid query parameters", "max_price is below min_price")
		return
	}

	products := h.lib.SearchProducts(query.ProductFilter{
		Category:    q.Category,
		Brand:       q.Brand,
		MinPrice:    q.MinPrice,
		MaxPrice:    q.MaxPrice,
		SortByPrice: q.Sort == "price",
	})

	writeJSON(w, http.StatusOK, ProductListDTO{Products: toProductDTOs(products), Count: len(products)})
}

// GetProduct handles GET /catalog/products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id", "")
		return
	}

	p, err := h.lib.Store().Products.FindByID(id)
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}
	s, err := h.lib.SupplierFor(p)
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ProductDetailDTO{
		ProductDTO: toProductDTO(p),
		Supplier:   s,
		Details:    format.ProductDetails(p, s),
	})
}

// ListSuppliers handles GET /catalog/suppliers.
func (h *CatalogHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers := h.lib.Store().Suppliers.All()
	writeJSON(w, http.StatusOK, SupplierListDTO{Suppliers: suppliers, Count: len(suppliers)})
}

// GetSupplier handles GET /catalog/suppliers/{id}.
func (h *CatalogHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid supplier id", "")
		return
	}

	s, err := h.lib.SupplierByID(id)
	if err != nil {
		h.notFoundOrError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, SupplierDetailDTO{
		Supplier: s,
		Products: toProductDTOs(h.lib.ProductsBySupplierID(id)),
	})
}

func (h *CatalogHandler) notFoundOrError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found", err.Error())
		return
	}
	h.logger.WithContext(r.Context()).Error().Err(err).Msg("Catalog lookup failed")
	writeError(w, http.StatusInternalServerError, "catalog lookup failed", "")
}

func parseProductQuery(v url.Values) (ProductQueryDTO, error) {
	q := ProductQueryDTO{
		Category: v.Get("category"),
		Brand:    v.Get("brand"),
		Sort:     v.Get("sort"),
	}

	var err error
	if s := v.Get("min_price"); s != "" {
		if q.MinPrice, err = strconv.ParseInt(s, 10, 64); err != nil {
			return q, errors.New("min_price must be an integer")
		}
	}
	if s := v.Get("max_price"); s != "" {
		if q.MaxPrice, err = strconv.ParseInt(s, 10, 64); err != nil {
			return q, errors.New("max_price must be an integer")
		}
	}

	return q, validate.Struct(q)
}

func toProductDTO(p catalog.Product) ProductDTO {
	return ProductDTO{Product: p, DisplayPrice: format.Price(p.Price)}
}

func toProductDTOs(products []catalog.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out
}
