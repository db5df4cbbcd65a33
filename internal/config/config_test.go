package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "")
	t.Setenv("CART_BACKEND", "")
	t.Setenv("CART_PATH", "")
	t.Setenv("TICK_INTERVAL_MS", "")
	t.Setenv("PROGRESS_STEP_MIN", "")
	t.Setenv("PROGRESS_STEP_MAX", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("NOTICE_TTL_MS", "")
	t.Setenv("DEFAULT_LAT", "")
	t.Setenv("DEFAULT_LNG", "")
	c := Load()
	if c.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default")
	}
	if c.ShutdownTimeout != 15*time.Second {
		t.Fatalf("ShutdownTimeout default")
	}
	if c.CartBackend != "file" || c.CartPath != "cart.json" {
		t.Fatalf("cart backend defaults")
	}
	if c.TickInterval != 4*time.Second {
		t.Fatalf("TickInterval default")
	}
	if c.ProgressStepMin != 5 || c.ProgressStepMax != 15 {
		t.Fatalf("progress step defaults")
	}
	if c.PageSize != 6 {
		t.Fatalf("PageSize default")
	}
	if c.NoticeTTL != 3*time.Second {
		t.Fatalf("NoticeTTL default")
	}
	if c.DefaultLat != 5.4833 || c.DefaultLng != 7.0333 {
		t.Fatalf("default coordinate")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SHUTDOWN_TIMEOUT", "2")
	t.Setenv("CART_BACKEND", "sqlite")
	t.Setenv("CART_PATH", "/tmp/cart.db")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("PROGRESS_STEP_MIN", "1")
	t.Setenv("PROGRESS_STEP_MAX", "3")
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("NOTICE_TTL_MS", "500")
	t.Setenv("DEFAULT_LAT", "40.7128")
	t.Setenv("DEFAULT_LNG", "-74.006")
	c := Load()
	if c.HTTPAddr != ":9090" {
		t.Fatalf("HTTPAddr env")
	}
	if c.ShutdownTimeout != 2*time.Second {
		t.Fatalf("ShutdownTimeout env")
	}
	if c.CartBackend != "sqlite" || c.CartPath != "/tmp/cart.db" {
		t.Fatalf("cart backend env")
	}
	if c.TickInterval != 250*time.Millisecond {
		t.Fatalf("TickInterval env")
	}
	if c.ProgressStepMin != 1 || c.ProgressStepMax != 3 {
		t.Fatalf("progress steps env")
	}
	if c.PageSize != 12 {
		t.Fatalf("PageSize env")
	}
	if c.NoticeTTL != 500*time.Millisecond {
		t.Fatalf("NoticeTTL env")
	}
	if c.DefaultLat != 40.7128 || c.DefaultLng != -74.006 {
		t.Fatalf("coordinate env")
	}
	_ = os.Unsetenv("HTTP_ADDR")
}

func TestBadNumbersFallBack(t *testing.T) {
	t.Setenv("TICK_INTERVAL_MS", "soon")
	t.Setenv("DEFAULT_LAT", "north")
	c := Load()
	if c.TickInterval != 4*time.Second {
		t.Fatalf("expected default tick interval, got %v", c.TickInterval)
	}
	if c.DefaultLat != 5.4833 {
		t.Fatalf("expected default lat, got %v", c.DefaultLat)
	}
}
