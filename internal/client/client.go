package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/techstore-catalog/internal/config"
	"github.com/tuanvumaihuynh/techstore-catalog/internal/model"
	"github.com/tuanvumaihuynh/techstore-catalog/pkg/correlationid"
)

// ProductInput is the body of create and update requests.
type ProductInput struct {
	Name        string        `json:"name"`
	Section     model.Section `json:"section"`
	Price       float64       `json:"price"`
	Description string        `json:"description"`
	Image       string        `json:"image,omitempty"`
	Used        bool          `json:"used"`
	Brand       string        `json:"brand"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded from the catalog error body.
type APIError struct {
	StatusCode int          `json:"-"`
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("catalog api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}

	fields := make([]string, len(e.Details))
	for i, d := range e.Details {
		fields[i] = d.Field
	}
	return fmt.Sprintf("catalog api: %d %s: %s (%s)", e.StatusCode, e.Code, e.Message, strings.Join(fields, ", "))
}

// Client talks to the catalog HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(cfg config.Client) *Client {
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout})
}

func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &product); err != nil {
		return model.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return product, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPost, "/products", in, &product); err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, in ProductInput) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodPut, productPath(id), in, &product); err != nil {
		return model.Product{}, fmt.Errorf("update product %s: %w", id, err)
	}
	return product, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) (model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, &product); err != nil {
		return model.Product{}, fmt.Errorf("delete product %s: %w", id, err)
	}
	return product, nil
}

func (c *Client) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	if err := c.do(ctx, http.MethodGet, "/brands", nil, &brands); err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	return brands, nil
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, ok := correlationid.FromContext(ctx); ok {
		req.Header.Set(correlationid.Header, id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || json.Unmarshal(data, apiErr) != nil || apiErr.Code == "" {
		apiErr.Code = http.StatusText(resp.StatusCode)
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
