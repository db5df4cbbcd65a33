package orders

import (
	"context"
	"time"

	"trackify/internal/model"
	"trackify/internal/obs"
)

// Poller sweeps the orders API and advances every undelivered order one
// status step. The sweep is exposed as an explicit Tick so tests (or any
// scheduler) can drive it synchronously.
type Poller struct {
	c *Client
}

func NewPoller(c *Client) *Poller {
	return &Poller{c: c}
}

// Tick performs one sweep: Pending orders move to In Transit, everything
// else undelivered moves to Delivered. Patch failures are logged and
// skipped; the sweep itself only fails when the list cannot be fetched.
func (p *Poller) Tick(ctx context.Context) error {
	list, err := p.c.List(ctx)
	if err != nil {
		return err
	}
	for _, o := range list {
		if o.Status == model.OrderDelivered {
			continue
		}
		next := model.OrderDelivered
		if o.Status == model.OrderPending {
			next = model.OrderInTransit
		}
		if err := p.c.Patch(ctx, o.ID, map[string]any{"status": next}); err != nil {
			obs.Logger.Warn("order_status_patch_failed", "order_id", o.ID, "error", err)
		}
	}
	return nil
}

// Run drives Tick on a fixed interval until the context is done. Sweep
// failures are logged and the loop keeps going.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := p.Tick(ctx); err != nil {
				obs.Logger.Warn("order_poll_failed", "error", err)
			}
		}
	}
}
