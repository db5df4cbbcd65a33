// Package model defines domain types used by the service.
package model

// Product is a catalog item as served by the catalog source.
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// CartEntry is one product line in the cart, uniquely keyed by product id.
type CartEntry struct {
	ID         int64   `json:"id"`
	Title      string  `json:"title"`
	Image      string  `json:"image"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	TrackingID string  `json:"trackingId"`
	Progress   int     `json:"progress"`
}

// Order is a record on the parallel orders API. It is not reconciled with
// the cart.
type Order struct {
	ID       string `json:"id"`
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image,omitempty"`
	Status   string `json:"status"`
}

// Order statuses advanced by the poller.
const (
	OrderPending   = "Pending"
	OrderInTransit = "In Transit"
	OrderDelivered = "Delivered"
)

// Coordinates is a WGS84 lat/lng pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
