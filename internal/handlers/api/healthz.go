package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthzResponse struct {
	Status  string `json:"status"`
	DB      bool   `json:"db"`
	Backend bool   `json:"backend"`
}

// handleHealthz reports 200 while the DB answers. An unreachable backend
// is reported but does not fail the check.
func (a *API) handleHealthz(c *gin.Context) {
	resp := &healthzResponse{
		Status:  "ok",
		DB:      true,
		Backend: a.backend.Healthy(c.Request.Context()),
	}

	code := http.StatusOK
	sqlDB, err := a.db.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logger.Error().Err(err).Msg("DB ping failed")
		resp.Status = "unavailable"
		resp.DB = false
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, resp)
}
