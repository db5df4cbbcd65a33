// Package orders talks to the placeholder orders REST API. This path is a
// best-effort side channel and is not reconciled with the cart.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"trackify/internal/model"
)

// validationError communicates rule violations back to HTTP handlers.
type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

// IsValidation helps callers distinguish between business and transport
// failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}

// Client is a thin client for the orders API.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(base string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{base: base, hc: &http.Client{Timeout: timeout}}
}

// Create posts a new order and returns the server's echo of it.
func (c *Client) Create(ctx context.Context, o model.Order) (model.Order, error) {
	body, err := json.Marshal(o)
	if err != nil {
		return model.Order{}, fmt.Errorf("encode order: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(body))
	if err != nil {
		return model.Order{}, fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return model.Order{}, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Order{}, fmt.Errorf("create order: unexpected status %d", resp.StatusCode)
	}
	var created model.Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return model.Order{}, fmt.Errorf("decode created order: %w", err)
	}
	return created, nil
}

// List fetches all orders.
func (c *Client) List(ctx context.Context) ([]model.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("list orders: unexpected status %d", resp.StatusCode)
	}
	var list []model.Order
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return list, nil
}

// Get fetches one order by id. Any non-2xx response is "not found": the
// result is a nil order and a nil error.
func (c *Client) Get(ctx context.Context, id string) (*model.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("build get request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil
	}
	var o model.Order
	if err := json.NewDecoder(resp.Body).Decode(&o); err != nil {
		return nil, fmt.Errorf("decode order %s: %w", id, err)
	}
	return &o, nil
}

// Patch sends a partial update and ignores the response body. Callers may
// treat the returned error as advisory; a failed patch never blocks state
// transitions elsewhere.
func (c *Client) Patch(ctx context.Context, id string, fields map[string]any) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode patch: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.base+"/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build patch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("patch order %s: %w", id, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Place records an order for a product by name, merging with an existing
// order for the same product: the existing order gets a quantity patch, a
// new product gets a fresh Pending order with a short uuid id.
func (c *Client) Place(ctx context.Context, product string, quantity int, image string) (model.Order, error) {
	if product == "" {
		return model.Order{}, validationError{message: "product name is required"}
	}
	if quantity < 1 {
		quantity = 1
	}
	existing, err := c.List(ctx)
	if err != nil {
		return model.Order{}, err
	}
	for _, o := range existing {
		if o.Product == product {
			o.Quantity += quantity
			if err := c.Patch(ctx, o.ID, map[string]any{"quantity": o.Quantity}); err != nil {
				return model.Order{}, err
			}
			return o, nil
		}
	}
	order := model.Order{
		ID:       uuid.NewString()[:8],
		Product:  product,
		Quantity: quantity,
		Image:    image,
		Status:   model.OrderPending,
	}
	return c.Create(ctx, order)
}
