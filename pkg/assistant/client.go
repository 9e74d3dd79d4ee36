// Package assistant provides the public Go SDK for the catalog assistant API.
package assistant

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is the public SDK client for the catalog assistant.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewClient creates a new catalog assistant client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8086"
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog assistant: %d %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("catalog assistant: %d %s", e.StatusCode, e.Message)
}

// AskResponse represents a chat answer.
type AskResponse struct {
	Response  string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	Matched   bool   `json:"matched"`
	Cached    bool   `json:"cached"`
	LatencyMs int64  `json:"latencyMs"`
}

// Product represents a catalog product.
type Product struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Brand        string `json:"brand"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"displayPrice"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	SupplierID   int    `json:"supplierId"`
}

// Supplier represents a catalog supplier.
type Supplier struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	ContactInfo string   `json:"contactInfo"`
	Categories  []string `json:"productCategoriesOffered"`
}

// ProductFilter narrows Products. Zero fields do not filter.
type ProductFilter struct {
	Category    string
	Brand       string
	MinPrice    int64
	MaxPrice    int64
	SortByPrice bool
}

// ComparisonRow is one feature of a comparison.
type ComparisonRow struct {
	Feature   string `json:"feature"`
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
}

// CompareResponse represents a comparison result.
type CompareResponse struct {
	PrimaryProductID   int             `json:"primaryProductId"`
	SecondaryProductID int             `json:"secondaryProductId"`
	Rows               []ComparisonRow `json:"rows"`
	Table              string          `json:"table"`
}

// Intent describes one configured intent rule.
type Intent struct {
	Position int    `json:"position"`
	Name     string `json:"name"`
	Trigger  string `json:"trigger"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Ask sends a chat question.
func (c *Client) Ask(ctx context.Context, text string) (*AskResponse, error) {
	var resp AskResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/query", map[string]string{"text": text}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Products lists catalog products matching f.
func (c *Client) Products(ctx context.Context, f ProductFilter) ([]Product, error) {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Brand != "" {
		q.Set("brand", f.Brand)
	}
	if f.MinPrice > 0 {
		q.Set("min_price", strconv.FormatInt(f.MinPrice, 10))
	}
	if f.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatInt(f.MaxPrice, 10))
	}
	if f.SortByPrice {
		q.Set("sort", "price")
	}

	path := "/api/v1/catalog/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp struct {
		Products []Product `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Suppliers lists catalog suppliers.
func (c *Client) Suppliers(ctx context.Context) ([]Supplier, error) {
	var resp struct {
		Suppliers []Supplier `json:"suppliers"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/catalog/suppliers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suppliers, nil
}

// Compare compares two products by id.
func (c *Client) Compare(ctx context.Context, primaryID, secondaryID int) (*CompareResponse, error) {
	body := map[string]int{"primaryProductId": primaryID, "secondaryProductId": secondaryID}
	var resp CompareResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/comparisons", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Intents lists the intent rules in evaluation order.
func (c *Client) Intents(ctx context.Context) ([]Intent, error) {
	var resp struct {
		Intents []Intent `json:"intents"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/intents", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Intents, nil
}

// Health checks the service health.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
