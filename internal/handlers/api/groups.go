package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleGetGroups(c *gin.Context) {
	v, ok := requireQuery(c, "Missing team ID", "teamId")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodGet, backendPath("groups", v[0]), true)
}

func (a *API) handleCreateGroup(c *gin.Context) {
	a.handleRequest(c, http.MethodPost, "/groups", true)
}

func (a *API) handleUpdateGroup(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("groups", v[0]), false)
}

func (a *API) handleDeleteGroup(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodDelete, backendPath("groups", v[0]), false)
}

// handleModifyGroupClients adds or removes clients of a group.
func (a *API) handleModifyGroupClients(c *gin.Context) {
	a.handleRequest(c, http.MethodPatch, "/groups/modify-client", true)
}
