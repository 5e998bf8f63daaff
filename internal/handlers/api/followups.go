package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (a *API) handleGetClientFollowUps(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "clientId")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodGet, backendPath("followups", "client", v[0]), true)
}

func (a *API) handleGetTeamFollowUps(c *gin.Context) {
	teamID := strings.TrimSpace(c.Param("teamId"))
	if teamID == "" {
		responseError(c, http.StatusBadRequest, "Missing teamId parameter")
		return
	}
	a.handleRequest(c, http.MethodGet, backendPath("followups", "team", teamID), false)
}

func (a *API) handleCreateFollowUp(c *gin.Context) {
	a.handleRequest(c, http.MethodPost, "/followups", true)
}

func (a *API) handleUpdateFollowUp(c *gin.Context) {
	v, ok := requireQuery(c, "Missing followup ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("followups", v[0]), false)
}

func (a *API) handleDeleteFollowUp(c *gin.Context) {
	v, ok := requireQuery(c, "Missing followup ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodDelete, backendPath("followups", v[0]), false)
}
