//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-brewery-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type orderLinePayload struct {
	ID                int64 `json:"id,omitempty"`
	BeerID            int64 `json:"beerId"`
	OrderQuantity     int32 `json:"orderQuantity"`
	QuantityAllocated int32 `json:"quantityAllocated,omitempty"`
}

type orderPayload struct {
	ID                     int64              `json:"id,omitempty"`
	Version                int64              `json:"version,omitempty"`
	CustomerID             int64              `json:"customerId"`
	OrderStatus            string             `json:"orderStatus,omitempty"`
	OrderStatusCallbackURL string             `json:"orderStatusCallbackUrl,omitempty"`
	OrderLines             []orderLinePayload `json:"orderLines"`
}

type problemDetail struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Status       int    `json:"status"`
	Detail       string `json:"detail"`
	ResourceType string `json:"resourceType"`
}

type apiError struct {
	status       int
	title        string
	detail       string
	resourceType string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func (e apiError) Status() int {
	return e.status
}

func TestStorefrontContract(t *testing.T) {
	t.Helper()
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	orderBodyMatcher := matchers.Map{
		"id":                     matchers.Like(pacttest.ExistingOrderID),
		"version":                matchers.Like(0),
		"customerId":             matchers.Like(pacttest.ExistingCustomerID),
		"orderStatus":            matchers.Term("NEW", "^[A-Z_]+$"),
		"orderStatusCallbackUrl": matchers.Like(pacttest.ExampleCallbackURL),
		"orderLines": matchers.EachLike(matchers.Map{
			"id":                matchers.Like(1),
			"version":           matchers.Like(0),
			"beerId":            matchers.Like(pacttest.ExistingBeerID),
			"orderQuantity":     matchers.Like(pacttest.ExampleOrderQuantity),
			"quantityAllocated": matchers.Like(0),
		}, 1),
		"createdDate": matchers.Like("2024-06-12T10:00:00Z"),
		"updateDate":  matchers.Like("2024-06-12T10:00:00Z"),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to place an order").
		WithRequest("POST", "/api/v1/beer-orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest(pacttest.ExistingBeerID))
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to place an order for a beer that does not exist").
		WithRequest("POST", "/api/v1/beer-orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(pacttest.ExampleOrderRequest(pacttest.MissingBeerID))
		}).
		WillRespondWith(http.StatusUnprocessableEntity, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":         matchers.S("/problems/unprocessable-entity"),
				"status":       matchers.Like(http.StatusUnprocessableEntity),
				"resourceType": matchers.S("beer"),
				"identifier":   matchers.Like(pacttest.MissingBeerID),
				"lineIndex":    matchers.Like(0),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", fmt.Sprintf("/api/v1/beer-orders/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderMissing).
		UponReceiving("a request for a missing order").
		WithRequest("GET", fmt.Sprintf("/api/v1/beer-orders/%d", pacttest.MissingOrderID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newOrderClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		placed, err := client.PlaceOrder(ctx, pacttest.ExistingBeerID)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if placed == nil || placed.ID == 0 || placed.OrderStatus != "NEW" {
			return fmt.Errorf("expected a NEW order with an id, got %+v", placed)
		}

		if _, err := client.PlaceOrder(ctx, pacttest.MissingBeerID); err == nil {
			return fmt.Errorf("expected 422 for beer %d", pacttest.MissingBeerID)
		} else if apiErr, ok := err.(apiError); !ok || apiErr.Status() != http.StatusUnprocessableEntity || apiErr.resourceType != "beer" {
			return fmt.Errorf("expected 422 naming the beer, got %v", err)
		}

		fetched, err := client.GetOrder(ctx, pacttest.ExistingOrderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if fetched == nil || fetched.ID != pacttest.ExistingOrderID || len(fetched.OrderLines) == 0 {
			return fmt.Errorf("expected order %d with lines, got %+v", pacttest.ExistingOrderID, fetched)
		}

		if _, err := client.GetOrder(ctx, pacttest.MissingOrderID); err == nil {
			return fmt.Errorf("expected 404 for order %d", pacttest.MissingOrderID)
		} else if apiErr, ok := err.(apiError); ok && apiErr.Status() != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %d", apiErr.Status())
		}
		return nil
	})
	require.NoError(t, err)
}

type orderClient struct {
	baseURL    string
	httpClient *http.Client
}

func newOrderClient(config pactconsumer.MockServerConfig) *orderClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	client := &http.Client{Transport: transport, Timeout: 10 * time.Second}
	return &orderClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: client,
	}
}

func (c *orderClient) PlaceOrder(ctx context.Context, beerID int64) (*orderPayload, error) {
	body, err := json.Marshal(pacttest.ExampleOrderRequest(beerID))
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/beer-orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *orderClient) GetOrder(ctx context.Context, id int64) (*orderPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/beer-orders/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *orderClient) do(req *http.Request) (*orderPayload, error) {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(res)
	}
	var payload orderPayload
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status:       status,
		title:        problem.Title,
		detail:       problem.Detail,
		resourceType: problem.ResourceType,
	}
}
