package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleGetClients(c *gin.Context) {
	a.handleRequest(c, http.MethodGet, "/clients", true)
}

func (a *API) handleCreateClient(c *gin.Context) {
	a.handleRequest(c, http.MethodPost, "/clients", true)
}

func (a *API) handleUpdateClient(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("clients", v[0]), false)
}

func (a *API) handleDeleteClient(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodDelete, backendPath("clients", v[0]), false)
}
