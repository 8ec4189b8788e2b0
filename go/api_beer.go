package breweryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/adapters/http/mapper"
	catalogtypes "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/application/types"
	catalogports "github.com/Apurer/go-gin-brewery-api/internal/domains/catalog/ports"
	apierrors "github.com/Apurer/go-gin-brewery-api/internal/shared/errors"
)

// BeerAPI wires HTTP transport with the catalog service.
type BeerAPI struct {
	service catalogports.Service
}

func NewBeerAPI(service catalogports.Service) BeerAPI {
	return BeerAPI{service: service}
}

// Post /api/v1/beers
// Add a beer to the catalog
func (api *BeerAPI) CreateBeer(c *gin.Context) {
	var payload catalogmapper.BeerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	saved, err := api.service.CreateBeer(c.Request.Context(), catalogmapper.ToBeerInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Location", c.FullPath()+"/"+formatID(saved.Entity.ID))
	c.JSON(http.StatusCreated, catalogmapper.FromProjection(saved))
}

// Get /api/v1/beers
// List the catalog one page at a time
func (api *BeerAPI) ListBeers(c *gin.Context) {
	input := catalogtypes.ListBeersInput{}
	if !bindPageParams(c, &input.PageNumber, &input.PageSize) {
		return
	}
	page, err := api.service.ListBeers(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromPage(page))
}

// Get /api/v1/beers/:beerId
func (api *BeerAPI) GetBeerById(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	beer, err := api.service.GetBeer(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(beer))
}

// Put /api/v1/beers/:beerId
// Replace a beer; If-Match pins the expected version
func (api *BeerAPI) UpdateBeer(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	expected, ok := parseIfMatch(c)
	if !ok {
		return
	}
	var payload catalogmapper.BeerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	updated, err := api.service.UpdateBeer(c.Request.Context(), catalogtypes.UpdateBeerInput{
		ID:              id,
		ExpectedVersion: expected,
		BeerInput:       catalogmapper.ToBeerInput(payload),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, catalogmapper.FromProjection(updated))
}

// Delete /api/v1/beers/:beerId
func (api *BeerAPI) DeleteBeer(c *gin.Context) {
	id, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	if err := api.service.DeleteBeer(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
