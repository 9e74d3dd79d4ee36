package assistant

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestClient_Ask(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/chat/query", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"text":"show me all mobile phones"}`, string(body))

		w.Write([]byte(`{"response":"SmartPhone X20 – MobileX, ₹45,000","intent":"mobile_phones","matched":true,"cached":false,"latencyMs":1}`))
	})

	resp, err := c.Ask(context.Background(), "show me all mobile phones")
	require.NoError(t, err)
	assert.Equal(t, "mobile_phones", resp.Intent)
	assert.True(t, resp.Matched)
}

func TestClient_Products(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/catalog/products", r.URL.Path)
		assert.Equal(t, "laptop", r.URL.Query().Get("category"))
		assert.Equal(t, "80000", r.URL.Query().Get("max_price"))
		assert.Equal(t, "price", r.URL.Query().Get("sort"))
		assert.Empty(t, r.URL.Query().Get("min_price"))

		w.Write([]byte(`{"products":[{"id":4,"name":"Business Laptop X1","price":75000,"displayPrice":"₹75,000","supplierId":101}],"count":1}`))
	})

	products, err := c.Products(context.Background(), ProductFilter{Category: "laptop", MaxPrice: 80000, SortByPrice: true})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "₹75,000", products[0].DisplayPrice)
	assert.Equal(t, 101, products[0].SupplierID)
}

func TestClient_Suppliers(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"suppliers":[{"id":103,"name":"MobileWorld","contactInfo":"mobile@example.com","productCategoriesOffered":["Mobiles"]}],"count":1}`))
	})

	suppliers, err := c.Suppliers(context.Background())
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, []string{"Mobiles"}, suppliers[0].Categories)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"product not found","detail":"product 30: not found"}`))
	})

	_, err := c.Compare(context.Background(), 3, 30)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "product not found", apiErr.Message)
}

func TestClient_ErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Health(context.Background())
	assert.EqualError(t, err, "catalog assistant: 429 Too Many Requests")
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(ClientConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}
