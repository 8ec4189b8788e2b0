package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newRouter(m *HTTPMetrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/beers/:beerId", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))
	return router
}

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegistry(reg, reg)
	router := newRouter(m)

	for _, path := range []string{"/beers/1", "/beers/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/beers/:beerId", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, unmatchedRoute, "404")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.inFlight))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetricsWithRegistry(reg, reg)
	router := newRouter(m)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/beers/1", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "brewery_http_requests_total"))
}

func TestNewHTTPMetricsWithRegistry_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewHTTPMetricsWithRegistry(reg, reg)
	second := NewHTTPMetricsWithRegistry(reg, reg)
	require.Same(t, first.requests, second.requests)
}
