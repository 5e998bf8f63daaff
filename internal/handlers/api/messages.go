package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetMessages lists the templates of a team, or one of them with ?id.
func (a *API) handleGetMessages(c *gin.Context) {
	v, ok := requireQuery(c, "Missing team ID", "teamId")
	if !ok {
		return
	}

	path := backendPath("messages", v[0])
	if id := c.Query("id"); id != "" {
		path = backendPath("messages", v[0], id)
	}
	a.handleRequest(c, http.MethodGet, path, true)
}

func (a *API) handleCreateMessage(c *gin.Context) {
	v, ok := requireQuery(c, "Missing team ID or creator", "teamId", "createdBy")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPost, backendPath("messages", v[0], v[1]), true)
}

func (a *API) handleUpdateMessage(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "teamId", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("messages", v[0], v[1]), false)
}

func (a *API) handleDeleteMessage(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "teamId", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodDelete, backendPath("messages", v[0], v[1]), false)
}
