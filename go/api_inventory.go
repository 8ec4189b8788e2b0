package breweryserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	inventorymapper "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/adapters/http/mapper"
	inventoryports "github.com/Apurer/go-gin-brewery-api/internal/domains/inventory/ports"
)

// InventoryAPI exposes read-only stock snapshots.
type InventoryAPI struct {
	service inventoryports.Service
}

func NewInventoryAPI(service inventoryports.Service) InventoryAPI {
	return InventoryAPI{service: service}
}

// Get /api/v1/beer-inventory
func (api *InventoryAPI) ListInventory(c *gin.Context) {
	records, err := api.service.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromProjectionList(records))
}

// Get /api/v1/beer-inventory/:inventoryId
func (api *InventoryAPI) GetInventoryById(c *gin.Context) {
	id, ok := parseIDParam(c, "inventoryId")
	if !ok {
		return
	}
	record, err := api.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromProjection(record))
}

// Get /api/v1/beer-inventory/beer/:beerId
// Unknown beers yield an empty list
func (api *InventoryAPI) ListInventoryByBeer(c *gin.Context) {
	beerID, ok := parseIDParam(c, "beerId")
	if !ok {
		return
	}
	records, err := api.service.ListByBeer(c.Request.Context(), beerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, inventorymapper.FromProjectionList(records))
}
