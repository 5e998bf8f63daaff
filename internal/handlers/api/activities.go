package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleGetActivities(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "clientId")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodGet, backendPath("activities", v[0]), true)
}

func (a *API) handleCreateActivity(c *gin.Context) {
	a.handleRequest(c, http.MethodPost, "/activities", true)
}

func (a *API) handleUpdateActivity(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("activities", v[0]), false)
}

func (a *API) handleDeleteActivity(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodDelete, backendPath("activities", v[0]), false)
}
