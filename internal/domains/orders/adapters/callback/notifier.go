package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

// DefaultTimeout bounds a single callback delivery.
const DefaultTimeout = 5 * time.Second

var (
	// ErrUnsupportedCallback is returned for callback values that are not absolute http(s) URLs.
	ErrUnsupportedCallback = errors.New("callback url must be an absolute http or https url")
	// ErrForbiddenTarget is returned when a callback resolves to a loopback, private or link-local address.
	ErrForbiddenTarget = errors.New("callback target address is not allowed")
)

var _ ports.StatusNotifier = (*Notifier)(nil)

// Notifier POSTs status notifications as JSON to the order's callback URL.
// Callback URLs come from clients, so by default only public addresses are dialed.
type Notifier struct {
	client       *http.Client
	allowPrivate bool
}

type Option func(*Notifier)

// WithPrivateTargets permits loopback and private network callbacks, for
// local development and tests.
func WithPrivateTargets() Option {
	return func(n *Notifier) {
		n.allowPrivate = true
	}
}

// NewNotifier builds a notifier with a traced client. A non-positive timeout uses DefaultTimeout.
func NewNotifier(timeout time.Duration, opts ...Option) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	n := &Notifier{}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !n.allowPrivate {
		// A proxy would be dialed instead of the target, bypassing the address check.
		transport.Proxy = nil
		transport.DialContext = (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
			Control:   publicOnly,
		}).DialContext
	}
	n.client = &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
		// Redirects could point a public URL at an internal host.
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}
	return n
}

func (n *Notifier) Notify(ctx context.Context, callbackURL string, notification ports.StatusNotification) error {
	target, err := url.Parse(callbackURL)
	if err != nil || !target.IsAbs() || (target.Scheme != "http" && target.Scheme != "https") {
		return ErrUnsupportedCallback
	}
	body, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("callback %s answered %d", target.Redacted(), resp.StatusCode)
	}
	return nil
}

// publicOnly runs after name resolution, so it sees the address actually dialed.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", ErrForbiddenTarget, host)
	}
	return nil
}
