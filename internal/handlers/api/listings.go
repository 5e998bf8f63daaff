package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

func (a *API) handleGetListings(c *gin.Context) {
	listings, err := storage.ListListings(a.relDB.Ctx(c.Request.Context()))
	if err != nil {
		responseDBError(c, err, "Error fetching listings from database")
		return
	}
	c.JSON(http.StatusOK, listings)
}

type addListingParams struct {
	Name        string `json:"name"`
	Contact     string `json:"contact"`
	ClosedDeals int    `json:"closedDeals"`
	City        string `json:"city"`
}

// handleAddListing stores a new listing, always active.
func (a *API) handleAddListing(c *gin.Context) {
	params := &addListingParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	listing := &models.Listing{
		Name:        params.Name,
		Contact:     params.Contact,
		ClosedDeals: params.ClosedDeals,
		City:        params.City,
		Status:      models.ListingActive,
	}
	if err := storage.AddListing(a.relDB.Ctx(c.Request.Context()), listing); err != nil {
		responseDBError(c, err, "Error adding listing to database")
		return
	}

	c.JSON(http.StatusCreated, listing)
}

type updateListingParams struct {
	ID          uint    `json:"id"`
	Name        *string `json:"name"`
	Contact     *string `json:"contact"`
	ClosedDeals *int    `json:"closedDeals"`
	City        *string `json:"city"`
	Status      *string `json:"status"`
}

func (p *updateListingParams) updates() map[string]any {
	updates := map[string]any{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Contact != nil {
		updates["contact"] = *p.Contact
	}
	if p.ClosedDeals != nil {
		updates["closed_deals"] = *p.ClosedDeals
	}
	if p.City != nil {
		updates["city"] = *p.City
	}
	if p.Status != nil {
		updates["status"] = *p.Status
	}
	return updates
}

func (a *API) handleUpdateListing(c *gin.Context) {
	params := &updateListingParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if params.ID == 0 {
		responseError(c, http.StatusBadRequest, "Missing listing ID")
		return
	}

	updates := params.updates()
	if len(updates) == 0 {
		responseError(c, http.StatusBadRequest, "No fields to update")
		return
	}

	listing, err := storage.UpdateListing(a.relDB.Ctx(c.Request.Context()), params.ID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responseError(c, http.StatusNotFound, "Listing not found")
			return
		}
		responseDBError(c, err, "Error updating listing in database")
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (a *API) handleDeleteListing(c *gin.Context) {
	v, ok := requireQuery(c, "Missing listing ID", "id")
	if !ok {
		return
	}

	id, err := strconv.ParseUint(v[0], 10, 64)
	if err != nil || id == 0 {
		responseError(c, http.StatusBadRequest, "Invalid listing ID")
		return
	}

	n, err := storage.DeleteListing(a.relDB.Ctx(c.Request.Context()), uint(id))
	if err != nil {
		responseDBError(c, err, "Error deleting listing from database")
		return
	}
	if n == 0 {
		responseError(c, http.StatusNotFound, "Listing not found")
		return
	}

	responseMessage(c, http.StatusOK, "Listing deleted successfully")
}
