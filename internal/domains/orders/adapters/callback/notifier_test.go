package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-brewery-api/internal/domains/orders/ports"
)

func TestNotify_PostsJSON(t *testing.T) {
	var received ports.StatusNotification
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewNotifier(time.Second, WithPrivateTargets()).Notify(context.Background(), server.URL+"/hooks/orders", ports.StatusNotification{
		OrderID:        7,
		CustomerID:     10,
		Status:         domain.StatusAllocated,
		PreviousStatus: domain.StatusNew,
		Version:        1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(7), received.OrderID)
	require.Equal(t, domain.StatusAllocated, received.Status)
}

func TestNotify_FailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewNotifier(0, WithPrivateTargets()).Notify(context.Background(), server.URL, ports.StatusNotification{OrderID: 1})
	require.ErrorContains(t, err, "502")
}

func TestNotify_RejectsNonHTTPCallbacks(t *testing.T) {
	notifier := NewNotifier(time.Second)
	for _, raw := range []string{"cb", "ftp://example.com/x", "/relative"} {
		err := notifier.Notify(context.Background(), raw, ports.StatusNotification{})
		require.ErrorIs(t, err, ErrUnsupportedCallback, raw)
	}
}

func TestNotify_RefusesInternalTargetsByDefault(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := NewNotifier(time.Second).Notify(context.Background(), server.URL, ports.StatusNotification{OrderID: 1})
	require.ErrorIs(t, err, ErrForbiddenTarget)
	require.False(t, called)
}

func TestNotify_DoesNotFollowRedirects(t *testing.T) {
	redirected := false
	internal := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		redirected = true
	}))
	defer internal.Close()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, internal.URL, http.StatusTemporaryRedirect)
	}))
	defer server.Close()

	err := NewNotifier(time.Second, WithPrivateTargets()).Notify(context.Background(), server.URL, ports.StatusNotification{OrderID: 1})
	require.ErrorContains(t, err, "307")
	require.False(t, redirected)
}
