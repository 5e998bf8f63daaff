package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetUser reads the backend profile of a user.
func (a *API) handleGetUser(c *gin.Context) {
	v, ok := requireQuery(c, "Missing user ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodGet, backendPath("user", v[0]), true)
}

func (a *API) handleUpdateUser(c *gin.Context) {
	v, ok := requireQuery(c, "Missing client ID", "id")
	if !ok {
		return
	}
	a.handleRequest(c, http.MethodPut, backendPath("user", v[0]), false)
}
