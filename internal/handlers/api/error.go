package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func responseError(c *gin.Context, httpCode int, errMsg string) {
	c.JSON(httpCode, gin.H{"error": errMsg})
}

func responseMessage(c *gin.Context, httpCode int, msg string) {
	c.JSON(httpCode, gin.H{"message": msg})
}

// responseDBError logs the cause and answers 500 with errMsg only.
func responseDBError(c *gin.Context, err error, errMsg string) {
	logger.Error().Err(err).Str("route", c.FullPath()).Msg(errMsg)
	responseError(c, http.StatusInternalServerError, errMsg)
}

// requireQuery returns the values of the query keys, or answers 400 with
// errMsg if any of them is empty.
func requireQuery(c *gin.Context, errMsg string, keys ...string) ([]string, bool) {
	values := make([]string, len(keys))
	for i, k := range keys {
		values[i] = c.Query(k)
		if values[i] == "" {
			responseError(c, http.StatusBadRequest, errMsg)
			return nil, false
		}
	}
	return values, true
}
