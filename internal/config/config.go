// Package config provides runtime configuration values for the service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds configuration knobs for the HTTP server, cart persistence,
// and the delivery simulation.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	ShutdownTimeout time.Duration

	CartBackend string // "file" or "sqlite"
	CartPath    string

	CatalogURL string
	PageSize   int

	OrdersURL        string
	OrderPollEvery   time.Duration
	OrderHTTPTimeout time.Duration

	TickInterval    time.Duration
	ProgressStepMin int
	ProgressStepMax int // exclusive

	GeoURL     string
	GeoTimeout time.Duration
	DefaultLat float64
	DefaultLng float64

	NoticeTTL time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func durenvms(key string, defMs int) time.Duration {
	ms := atoienv(key, defMs)
	return time.Duration(ms) * time.Millisecond
}

func durenvs(key string, defSec int) time.Duration {
	sec := atoienv(key, defSec)
	return time.Duration(sec) * time.Second
}

// Load collects configuration from environment with defaults.
func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT", 15),

		CartBackend: getenv("CART_BACKEND", "file"),
		CartPath:    getenv("CART_PATH", "cart.json"),

		CatalogURL: getenv("CATALOG_URL", "https://fakestoreapi.com/products"),
		PageSize:   atoienv("PAGE_SIZE", 6),

		OrdersURL:        getenv("ORDERS_URL", "http://localhost:4000/orders"),
		OrderPollEvery:   durenvs("ORDER_POLL_INTERVAL", 10),
		OrderHTTPTimeout: durenvs("ORDER_HTTP_TIMEOUT", 5),

		TickInterval:    durenvms("TICK_INTERVAL_MS", 4000),
		ProgressStepMin: atoienv("PROGRESS_STEP_MIN", 5),
		ProgressStepMax: atoienv("PROGRESS_STEP_MAX", 15),

		GeoURL:     getenv("GEO_URL", ""),
		GeoTimeout: durenvs("GEO_TIMEOUT", 10),
		DefaultLat: floatenv("DEFAULT_LAT", 5.4833),
		DefaultLng: floatenv("DEFAULT_LNG", 7.0333),

		NoticeTTL: durenvms("NOTICE_TTL_MS", 3000),
	}
}
