// Package geo resolves an approximate viewer location with categorized
// failures and a fixed fallback. Nothing here is fatal.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"trackify/internal/model"
	"trackify/internal/obs"
)

// FailKind categorizes why a lookup failed.
type FailKind string

const (
	FailPermissionDenied FailKind = "permission-denied"
	FailUnavailable      FailKind = "unavailable"
	FailTimeout          FailKind = "timeout"
	FailUnknown          FailKind = "unknown"
)

// Error is a categorized geolocation failure.
type Error struct {
	Kind FailKind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("geo: %s: %s", e.Kind, e.msg)
}

// KindOf extracts the failure category, defaulting to unknown.
func KindOf(err error) FailKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return FailUnknown
}

// Provider yields the viewer's coordinates or a categorized failure.
type Provider interface {
	Locate(ctx context.Context) (model.Coordinates, error)
}

// Static always returns a fixed coordinate.
type Static struct {
	At model.Coordinates
}

func (s Static) Locate(context.Context) (model.Coordinates, error) {
	return s.At, nil
}

// HTTPProvider queries a location endpoint returning {"lat":..,"lng":..}.
type HTTPProvider struct {
	url string
	hc  *http.Client
}

func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPProvider{url: url, hc: &http.Client{Timeout: timeout}}
}

func (p *HTTPProvider) Locate(ctx context.Context) (model.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return model.Coordinates{}, &Error{Kind: FailUnknown, msg: err.Error()}
	}
	resp, err := p.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return model.Coordinates{}, &Error{Kind: FailTimeout, msg: err.Error()}
		}
		return model.Coordinates{}, &Error{Kind: FailUnavailable, msg: err.Error()}
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return model.Coordinates{}, &Error{Kind: FailPermissionDenied, msg: resp.Status}
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		return model.Coordinates{}, &Error{Kind: FailTimeout, msg: resp.Status}
	case resp.StatusCode >= 500:
		return model.Coordinates{}, &Error{Kind: FailUnavailable, msg: resp.Status}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return model.Coordinates{}, &Error{Kind: FailUnknown, msg: resp.Status}
	}
	var c model.Coordinates
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return model.Coordinates{}, &Error{Kind: FailUnknown, msg: err.Error()}
	}
	return c, nil
}

// Resolve returns the provider's coordinates, or the fallback when the
// provider is absent or fails. Failures are logged, never propagated.
func Resolve(ctx context.Context, p Provider, fallback model.Coordinates) model.Coordinates {
	if p == nil {
		return fallback
	}
	c, err := p.Locate(ctx)
	if err != nil {
		obs.Logger.Warn("geo_lookup_failed", "kind", string(KindOf(err)), "error", err)
		return fallback
	}
	return c
}
