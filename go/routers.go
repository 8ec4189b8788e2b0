package breweryserver

import (
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// BasePath prefixes every versioned API route.
const BasePath = "/api/v1"

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every bounded context.
type ApiHandleFunctions struct {
	BeerAPI      BeerAPI
	CustomerAPI  CustomerAPI
	InventoryAPI InventoryAPI
	OrderAPI     OrderAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	registerJSONFieldNames()
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var registerOnce sync.Once

// registerJSONFieldNames makes validator errors name fields by their JSON keys.
func registerJSONFieldNames() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz},

		{"CreateBeer", http.MethodPost, BasePath + "/beers", handleFunctions.BeerAPI.CreateBeer},
		{"ListBeers", http.MethodGet, BasePath + "/beers", handleFunctions.BeerAPI.ListBeers},
		{"GetBeerById", http.MethodGet, BasePath + "/beers/:beerId", handleFunctions.BeerAPI.GetBeerById},
		{"UpdateBeer", http.MethodPut, BasePath + "/beers/:beerId", handleFunctions.BeerAPI.UpdateBeer},
		{"DeleteBeer", http.MethodDelete, BasePath + "/beers/:beerId", handleFunctions.BeerAPI.DeleteBeer},

		{"CreateCustomer", http.MethodPost, BasePath + "/customers", handleFunctions.CustomerAPI.CreateCustomer},
		{"ListCustomers", http.MethodGet, BasePath + "/customers", handleFunctions.CustomerAPI.ListCustomers},
		{"GetCustomerById", http.MethodGet, BasePath + "/customers/:customerId", handleFunctions.CustomerAPI.GetCustomerById},
		{"UpdateCustomer", http.MethodPut, BasePath + "/customers/:customerId", handleFunctions.CustomerAPI.UpdateCustomer},
		{"DeleteCustomer", http.MethodDelete, BasePath + "/customers/:customerId", handleFunctions.CustomerAPI.DeleteCustomer},

		{"ListInventory", http.MethodGet, BasePath + "/beer-inventory", handleFunctions.InventoryAPI.ListInventory},
		{"GetInventoryById", http.MethodGet, BasePath + "/beer-inventory/:inventoryId", handleFunctions.InventoryAPI.GetInventoryById},
		{"ListInventoryByBeer", http.MethodGet, BasePath + "/beer-inventory/beer/:beerId", handleFunctions.InventoryAPI.ListInventoryByBeer},

		{"PlaceOrder", http.MethodPost, BasePath + "/beer-orders", handleFunctions.OrderAPI.PlaceOrder},
		{"ListOrders", http.MethodGet, BasePath + "/beer-orders", handleFunctions.OrderAPI.ListOrders},
		{"GetOrderById", http.MethodGet, BasePath + "/beer-orders/:orderId", handleFunctions.OrderAPI.GetOrderById},
		{"ListCustomerOrders", http.MethodGet, BasePath + "/beer-orders/customer/:customerId", handleFunctions.OrderAPI.ListCustomerOrders},
		{"UpdateOrderStatus", http.MethodPut, BasePath + "/beer-orders/:orderId/status", handleFunctions.OrderAPI.UpdateOrderStatus},
		{"DeleteOrder", http.MethodDelete, BasePath + "/beer-orders/:orderId", handleFunctions.OrderAPI.DeleteOrder},
	}
}
