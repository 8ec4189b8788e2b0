package callback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

var _ ports.StatusNotifier = (*Dispatcher)(nil)

// Dispatcher hands notifications to a background delivery so a slow callback
// endpoint never holds up the status change that triggered it. Deliveries
// outlive the request context and are bounded by their own timeout.
type Dispatcher struct {
	inner   ports.StatusNotifier
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

func NewDispatcher(inner ports.StatusNotifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{inner: inner, timeout: timeout, logger: logger}
}

// Notify schedules the delivery and returns at once. Failures are logged.
func (d *Dispatcher) Notify(ctx context.Context, callbackURL string, notification ports.StatusNotification) error {
	deliveryCtx := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(deliveryCtx, d.timeout)
		defer cancel()
		if err := d.inner.Notify(ctx, callbackURL, notification); err != nil {
			d.logger.LogAttrs(ctx, slog.LevelWarn, "order status callback failed",
				slog.Int64("orderId", notification.OrderID),
				slog.String("status", string(notification.Status)),
				slog.String("error", err.Error()),
			)
		}
	}()
	return nil
}

// Close waits for deliveries already scheduled.
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
