// Package main boots the Trackify cart and delivery tracking server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trackify/internal/cart"
	"trackify/internal/catalog"
	"trackify/internal/config"
	"trackify/internal/geo"
	httpapi "trackify/internal/http"
	"trackify/internal/notify"
	"trackify/internal/obs"
	"trackify/internal/orders"
	"trackify/internal/storage"
	"trackify/internal/tracking"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	var port cart.Port
	switch cfg.CartBackend {
	case "sqlite":
		sp, err := storage.NewSQLitePort(cfg.CartPath)
		if err != nil {
			obs.Logger.Error("sqlite_open_error", "path", cfg.CartPath, "error", err)
			os.Exit(1)
		}
		defer sp.Close()
		port = sp
	default:
		port = storage.NewFilePort(cfg.CartPath)
	}

	st := cart.New(port)
	if err := st.Load(); err != nil {
		obs.Logger.Error("cart_load_error", "path", cfg.CartPath, "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("cart_loaded", "backend", cfg.CartBackend, "entries", st.Len())

	sim := tracking.New(st, cfg.TickInterval, cfg.ProgressStepMin, cfg.ProgressStepMax)

	var gp geo.Provider
	if cfg.GeoURL != "" {
		gp = geo.NewHTTPProvider(cfg.GeoURL, cfg.GeoTimeout)
	}

	ordersClient := orders.NewClient(cfg.OrdersURL, cfg.OrderHTTPTimeout)
	poller := orders.NewPoller(ordersClient)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := httpapi.NewApp(ctx, cfg, st, sim,
		catalog.NewClient(cfg.CatalogURL), ordersClient, gp, notify.NewHub(cfg.NoticeTTL))
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		poller.Run(gctx, cfg.OrderPollEvery)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		obs.Logger.Info("shutdown_signal")

		app.StartShutdown()

		ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelSrv()
		return srv.Shutdown(ctxSrv)
	})

	if err := g.Wait(); err != nil {
		obs.Logger.Error("service_error", "error", err)
		os.Exit(1)
	}
	obs.Logger.Info("service_stopped")
}
