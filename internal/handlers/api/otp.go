package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) handleSendOTP(c *gin.Context) {
	a.handleRequest(c, http.MethodPost, "/otp/send", true)
}

func (a *API) handleVerifyOTP(c *gin.Context) {
	// the backend route is spelled this way.
	a.handleRequest(c, http.MethodPost, "/otp/varify", true)
}
