package callback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

type blockingNotifier struct {
	release   chan struct{}
	delivered chan error
}

func (b *blockingNotifier) Notify(ctx context.Context, _ string, _ ports.StatusNotification) error {
	<-b.release
	b.delivered <- ctx.Err()
	return errors.New("endpoint unavailable")
}

func TestDispatcher_ReturnsBeforeDeliveryAndOutlivesRequest(t *testing.T) {
	inner := &blockingNotifier{release: make(chan struct{}), delivered: make(chan error, 1)}
	dispatcher := NewDispatcher(inner, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	requestCtx, cancel := context.WithCancel(context.Background())
	returned := make(chan error, 1)
	go func() { returned <- dispatcher.Notify(requestCtx, "https://hooks.example.com/orders", ports.StatusNotification{OrderID: 3}) }()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Notify waited for the callback endpoint")
	}

	cancel()
	close(inner.release)
	dispatcher.Close()
	require.NoError(t, <-inner.delivered)
}

func TestDispatcher_BoundsDeliveryWithTimeout(t *testing.T) {
	inner := &deadlineNotifier{seen: make(chan bool, 1)}
	dispatcher := NewDispatcher(inner, 50*time.Millisecond, nil)

	require.NoError(t, dispatcher.Notify(context.Background(), "https://hooks.example.com/orders", ports.StatusNotification{OrderID: 4}))
	dispatcher.Close()
	require.True(t, <-inner.seen)
}

type deadlineNotifier struct {
	seen chan bool
}

func (d *deadlineNotifier) Notify(ctx context.Context, _ string, _ ports.StatusNotification) error {
	<-ctx.Done()
	d.seen <- errors.Is(ctx.Err(), context.DeadlineExceeded)
	return ctx.Err()
}
