package breweryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customermapper "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/adapters/http/mapper"
	customertypes "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/application/types"
	customerports "github.com/Apurer/go-gin-brewery-api/internal/domains/customers/ports"
	apierrors "github.com/Apurer/go-gin-brewery-api/internal/shared/errors"
)

// CustomerAPI wires HTTP transport with the customer directory.
type CustomerAPI struct {
	service customerports.Service
}

func NewCustomerAPI(service customerports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Post /api/v1/customers
func (api *CustomerAPI) CreateCustomer(c *gin.Context) {
	var payload customermapper.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	saved, err := api.service.CreateCustomer(c.Request.Context(), customermapper.ToCustomerInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+formatID(saved.Entity.ID))
	c.JSON(http.StatusCreated, customermapper.FromProjection(saved))
}

// Get /api/v1/customers
func (api *CustomerAPI) ListCustomers(c *gin.Context) {
	customers, err := api.service.ListCustomers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromProjectionList(customers))
}

// Get /api/v1/customers/:customerId
func (api *CustomerAPI) GetCustomerById(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	customer, err := api.service.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromProjection(customer))
}

// Put /api/v1/customers/:customerId
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	expected, ok := parseIfMatch(c)
	if !ok {
		return
	}
	var payload customermapper.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	updated, err := api.service.UpdateCustomer(c.Request.Context(), customertypes.UpdateCustomerInput{
		ID:              id,
		ExpectedVersion: expected,
		CustomerInput:   customermapper.ToCustomerInput(payload),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, customermapper.FromProjection(updated))
}

// Delete /api/v1/customers/:customerId
// Refused with 409 while the customer still has orders
func (api *CustomerAPI) DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "customerId")
	if !ok {
		return
	}
	if err := api.service.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
