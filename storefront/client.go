package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/AveGamers/HolySMP-Website/models"
	"go.uber.org/zap"
)

// ErrNoCheckoutURL is returned when a basket was created but the response
// carries no checkout link.
var ErrNoCheckoutURL = errors.New("storefront: basket response has no checkout url")

// APIError is a non-2xx answer of the shop API.
type APIError struct {
	Status  int
	Title   string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("shop api %d: %s: %s", e.Status, e.Title, e.Message)
	case e.Title != "":
		return fmt.Sprintf("shop api %d: %s", e.Status, e.Title)
	}
	return fmt.Sprintf("shop api %d", e.Status)
}

// Catalog is the data the shop page renders.
type Catalog struct {
	Categories []models.Category
	Packages   []models.CatalogPackage
}

// Client talks to the shop API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client for the shop API rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// ---- catalog ----

// Categories returns the categories with their packages.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Data []models.Category `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Packages returns the flat package list.
func (c *Client) Packages(ctx context.Context) ([]models.CatalogPackage, error) {
	var resp struct {
		Data []models.CatalogPackage `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/packages", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchCatalog loads categories and packages concurrently. A failed request
// yields an empty list so the page can still render.
func (c *Client) FetchCatalog(ctx context.Context) Catalog {
	type categoriesResult struct {
		data []models.Category
		err  error
	}
	type packagesResult struct {
		data []models.CatalogPackage
		err  error
	}
	categoriesCh := make(chan categoriesResult, 1)
	packagesCh := make(chan packagesResult, 1)

	go func() {
		data, err := c.Categories(ctx)
		categoriesCh <- categoriesResult{data: data, err: err}
	}()
	go func() {
		data, err := c.Packages(ctx)
		packagesCh <- packagesResult{data: data, err: err}
	}()

	categories := <-categoriesCh
	packages := <-packagesCh

	var catalog Catalog
	if categories.err != nil {
		c.logger.Warn("load categories failed", zap.Error(categories.err))
	} else {
		catalog.Categories = categories.data
	}
	if packages.err != nil {
		c.logger.Warn("load packages failed", zap.Error(packages.err))
	} else {
		catalog.Packages = packages.data
	}
	return catalog
}

// ---- basket ----

// CreateBasket submits an order and returns the checkout URL.
func (c *Client) CreateBasket(ctx context.Context, req models.BasketRequest) (string, error) {
	var resp struct {
		Data struct {
			Links struct {
				Checkout string `json:"checkout"`
			} `json:"links"`
		} `json:"data"`
		Links struct {
			Checkout string `json:"checkout"`
		} `json:"links"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/basket", req, &resp); err != nil {
		return "", err
	}
	if url := resp.Data.Links.Checkout; url != "" {
		return url, nil
	}
	if url := resp.Links.Checkout; url != "" {
		return url, nil
	}
	return "", ErrNoCheckoutURL
}

// ---- internal helper ----

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
