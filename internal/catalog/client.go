// Package catalog consumes the external catalog source.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trackify/internal/model"
)

// Client fetches products from the catalog HTTP source.
type Client struct {
	url string
	hc  *http.Client
}

func NewClient(url string) *Client {
	return &Client{url: url, hc: &http.Client{Timeout: 10 * time.Second}}
}

// Fetch retrieves the full product list. Failures are plain errors; they
// never touch cart state.
func (c *Client) Fetch(ctx context.Context) ([]model.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}
	var products []model.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return products, nil
}

// Search filters products whose title contains q, case-insensitively.
func Search(products []model.Product, q string) []model.Product {
	if q == "" {
		return products
	}
	q = strings.ToLower(q)
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), q) {
			out = append(out, p)
		}
	}
	return out
}

// Page slices products into fixed-size pages, 1-based. It returns the page
// content and the total page count. Out-of-range pages are empty.
func Page(products []model.Product, page, perPage int) ([]model.Product, int) {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}
	total := (len(products) + perPage - 1) / perPage
	start := (page - 1) * perPage
	if start >= len(products) {
		return []model.Product{}, total
	}
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], total
}
