package tracking

import "trackify/internal/model"

// Delivery statuses derived from progress thresholds.
const (
	StatusWarehouse = "Warehouse"
	StatusOnTheRoad = "On the road"
	StatusNearCity  = "Near your city"
	StatusDelivered = "Delivered"
)

// StatusFor maps a progress value onto its discrete status label.
func StatusFor(progress int) string {
	switch {
	case progress < 30:
		return StatusWarehouse
	case progress < 70:
		return StatusOnTheRoad
	case progress < 100:
		return StatusNearCity
	default:
		return StatusDelivered
	}
}

// Simulated route waypoints, one per status band.
var (
	waypointWarehouse = model.Coordinates{Lat: 40.7128, Lng: -74.006}
	waypointRoad      = model.Coordinates{Lat: 39.0997, Lng: -94.5786}
	waypointNearCity  = model.Coordinates{Lat: 41.8781, Lng: -87.6298}
	waypointDelivered = model.Coordinates{Lat: 41.881832, Lng: -87.623177}
)

// WaypointFor maps a progress value onto a simulated carrier location.
func WaypointFor(progress int) model.Coordinates {
	switch {
	case progress < 30:
		return waypointWarehouse
	case progress < 70:
		return waypointRoad
	case progress < 100:
		return waypointNearCity
	default:
		return waypointDelivered
	}
}
