package api

import (
	"encoding/csv"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamcrm/internal/models"
	"github.com/charleshuang3/teamcrm/internal/storage"
)

func (a *API) handleGetCSVData(c *gin.Context) {
	data, err := storage.ListCSVData(a.relDB.Ctx(c.Request.Context()))
	if err != nil {
		responseDBError(c, err, "Error fetching data")
		return
	}
	c.JSON(http.StatusOK, data)
}

type addCSVDataParams struct {
	UserID string `json:"user_id" binding:"required"`
	Data   string `json:"csv_data" binding:"required"`
}

// validCSV reports whether data parses as CSV with a consistent column count.
func validCSV(data string) bool {
	records, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	return err == nil && len(records) > 0
}

// handleAddCSVData stores a raw CSV import of a user.
func (a *API) handleAddCSVData(c *gin.Context) {
	params := &addCSVDataParams{}
	if err := c.ShouldBindJSON(params); err != nil {
		responseError(c, http.StatusBadRequest, "user_id and csv_data are required")
		return
	}

	if !validCSV(params.Data) {
		responseError(c, http.StatusBadRequest, "Invalid CSV data")
		return
	}

	row := &models.CSVData{
		UserID: params.UserID,
		Data:   params.Data,
	}
	if err := storage.AddCSVData(a.relDB.Ctx(c.Request.Context()), row); err != nil {
		responseDBError(c, err, "Error saving data")
		return
	}

	c.JSON(http.StatusCreated, row)
}
