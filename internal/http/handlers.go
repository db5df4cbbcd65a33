package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"trackify/internal/cart"
	"trackify/internal/catalog"
	"trackify/internal/config"
	"trackify/internal/geo"
	httpopenapi "trackify/internal/http/openapi"
	"trackify/internal/model"
	"trackify/internal/notify"
	"trackify/internal/obs"
	"trackify/internal/orders"
	"trackify/internal/tracking"
)

type App struct {
	Cfg     config.Config
	Cart    *cart.Store
	Sim     *tracking.Simulator
	Catalog *catalog.Client
	Orders  *orders.Client
	Geo     geo.Provider
	Hub     *notify.Hub

	watchCtx context.Context
	closing  bool
	started  time.Time
}

// NewApp wires the HTTP surface. ctx is the lifetime parent for watch
// timers started by handlers.
func NewApp(ctx context.Context, cfg config.Config, st *cart.Store, sim *tracking.Simulator, cat *catalog.Client, ord *orders.Client, gp geo.Provider, hub *notify.Hub) *App {
	return &App{
		Cfg:      cfg,
		Cart:     st,
		Sim:      sim,
		Catalog:  cat,
		Orders:   ord,
		Geo:      gp,
		Hub:      hub,
		watchCtx: ctx,
		started:  time.Now(),
	}
}

// StartShutdown rejects further mutations and cancels active watch timers.
func (a *App) StartShutdown() {
	a.closing = true
	a.Sim.StopAll()
}

func (a *App) fallback() model.Coordinates {
	return model.Coordinates{Lat: a.Cfg.DefaultLat, Lng: a.Cfg.DefaultLng}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type cartView struct {
	Items []model.CartEntry `json:"items"`
	Total string            `json:"total"`
}

func (a *App) cartHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	writeJSON(w, http.StatusOK, cartView{
		Items: a.Cart.Entries(),
		Total: fmt.Sprintf("%.2f", a.Cart.Total()),
	})
}

type addItemRequest struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
}

func (a *App) cartItemsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	if a.closing {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return
	}
	var req addItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, errInvalidJSON, err.Error())
		return
	}
	if req.ID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, errValidation, "id is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		WriteJSONError(w, http.StatusBadRequest, errValidation, "title is required")
		return
	}
	entry, err := a.Cart.Add(model.Product{
		ID:          req.ID,
		Title:       req.Title,
		Image:       req.Image,
		Price:       req.Price,
		Description: req.Description,
	}, req.Quantity)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}
	a.Hub.Publish("Cart", fmt.Sprintf("%s added to cart", entry.Title), notify.LevelSuccess)
	obs.Logger.Info("cart_item_added",
		"request_id", RequestIDFromContext(r.Context()),
		"product_id", entry.ID,
		"quantity", entry.Quantity,
		"tracking_id", entry.TrackingID,
	)
	writeJSON(w, http.StatusCreated, entry)
}

func (a *App) cartItemHandler(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/cart/items/")
	if idStr == "" || strings.Contains(idStr, "/") {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "")
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, errValidation, "id must be an integer")
		return
	}
	if a.closing {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	switch r.Method {
	case http.MethodDelete:
		existed := false
		for _, e := range a.Cart.Entries() {
			if e.ID == id {
				existed = true
				break
			}
		}
		if err := a.Cart.Remove(id); err != nil {
			WriteJSONError(w, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		if existed {
			a.Hub.Publish("Cart", "Product removed from cart", notify.LevelError)
		}
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPatch:
		var req struct {
			Delta int `json:"delta"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			WriteJSONError(w, http.StatusBadRequest, errInvalidJSON, err.Error())
			return
		}
		if req.Delta == 0 {
			WriteJSONError(w, http.StatusBadRequest, errValidation, "delta must be non-zero")
			return
		}
		q, err := a.Cart.AdjustQuantity(id, req.Delta)
		if errors.Is(err, cart.ErrNotFound) {
			WriteJSONError(w, http.StatusNotFound, errNotFound, "")
			return
		}
		if err != nil {
			WriteJSONError(w, http.StatusInternalServerError, "storage_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "quantity": q})
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) catalogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	products, err := a.Catalog.Fetch(r.Context())
	if err != nil {
		obs.Logger.Warn("catalog_fetch_failed", "error", err)
		WriteJSONError(w, http.StatusBadGateway, "catalog_unavailable", err.Error())
		return
	}
	q := r.URL.Query().Get("q")
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	filtered := catalog.Search(products, q)
	paged, totalPages := catalog.Page(filtered, page, a.Cfg.PageSize)
	writeJSON(w, http.StatusOK, map[string]any{
		"products":    paged,
		"page":        page,
		"total_pages": totalPages,
	})
}

type trackView struct {
	TrackingID string            `json:"trackingId"`
	Entry      model.CartEntry   `json:"entry"`
	Progress   int               `json:"progress"`
	Status     string            `json:"status"`
	Location   model.Coordinates `json:"location"`
	Viewer     model.Coordinates `json:"viewer"`
	Watching   bool              `json:"watching"`
}

func (a *App) trackHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/track/")
	trk, action, _ := strings.Cut(rest, "/")
	if strings.TrimSpace(trk) == "" {
		WriteJSONError(w, http.StatusBadRequest, errValidation, "tracking id is required")
		return
	}
	switch {
	case action == "" && r.Method == http.MethodGet:
		a.trackSnapshot(w, r, trk)
	case action == "watch" && r.Method == http.MethodPost:
		a.startWatch(w, r, trk)
	case action == "watch" && r.Method == http.MethodDelete:
		a.stopWatch(w, trk)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) trackSnapshot(w http.ResponseWriter, r *http.Request, trk string) {
	snap, ok := a.Sim.Snapshot(trk)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "no entry matches this tracking id")
		return
	}
	writeJSON(w, http.StatusOK, trackView{
		TrackingID: trk,
		Entry:      snap.Entry,
		Progress:   snap.Progress,
		Status:     snap.Status,
		Location:   snap.Location,
		Viewer:     geo.Resolve(r.Context(), a.Geo, a.fallback()),
		Watching:   a.Sim.IsWatching(trk),
	})
}

func (a *App) startWatch(w http.ResponseWriter, r *http.Request, trk string) {
	if a.closing {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	err := a.Sim.Watch(a.watchCtx, trk)
	switch {
	case errors.Is(err, cart.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, errNotFound, "no entry matches this tracking id")
	case errors.Is(err, tracking.ErrAlreadyWatching):
		WriteJSONError(w, http.StatusConflict, "already_watching", "")
	case errors.Is(err, tracking.ErrDelivered):
		WriteJSONError(w, http.StatusConflict, "delivered", "progress is complete")
	case err != nil:
		WriteJSONError(w, http.StatusInternalServerError, "internal_error", err.Error())
	default:
		obs.Logger.Info("watch_requested",
			"request_id", RequestIDFromContext(r.Context()),
			"tracking_id", trk,
		)
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "watching", "trackingId": trk})
	}
}

func (a *App) stopWatch(w http.ResponseWriter, trk string) {
	if !a.Sim.Unwatch(trk) {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "no active watch for this tracking id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type placeOrderRequest struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

func (a *App) ordersHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		list, err := a.Orders.List(r.Context())
		if err != nil {
			WriteJSONError(w, http.StatusBadGateway, "orders_unavailable", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		if a.closing {
			WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
			return
		}
		var req placeOrderRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			WriteJSONError(w, http.StatusBadRequest, errInvalidJSON, err.Error())
			return
		}
		o, err := a.Orders.Place(r.Context(), strings.TrimSpace(req.Product), req.Quantity, req.Image)
		if orders.IsValidation(err) {
			WriteJSONError(w, http.StatusBadRequest, errValidation, err.Error())
			return
		}
		if err != nil {
			WriteJSONError(w, http.StatusBadGateway, "orders_unavailable", err.Error())
			return
		}
		a.Hub.Publish("Orders", fmt.Sprintf("Order placed for %s", o.Product), notify.LevelSuccess)
		writeJSON(w, http.StatusCreated, o)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) orderHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/orders/")
	if id == "" {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "")
		return
	}
	o, err := a.Orders.Get(r.Context(), id)
	if err != nil {
		WriteJSONError(w, http.StatusBadGateway, "orders_unavailable", err.Error())
		return
	}
	if o == nil {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type pushRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Level   string `json:"level"`
}

func (a *App) notificationsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"notifications": a.Hub.Active()})
	case http.MethodPost:
		var req pushRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			WriteJSONError(w, http.StatusBadRequest, errInvalidJSON, err.Error())
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Message) == "" {
			WriteJSONError(w, http.StatusBadRequest, errValidation, "title and message are required")
			return
		}
		n := a.Hub.Publish(req.Title, req.Message, req.Level)
		writeJSON(w, http.StatusCreated, n)
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) notificationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/notifications/")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, errValidation, "id must be an integer")
		return
	}
	if !a.Hub.Dismiss(id) {
		WriteJSONError(w, http.StatusNotFound, errNotFound, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cart_entries":   a.Cart.Len(),
		"cart_total":     a.Cart.Total(),
		"active_watches": a.Sim.ActiveWatches(),
		"notices_active": len(a.Hub.Active()),
		"uptime_sec":     time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
