package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charleshuang3/teamcrm/internal/proxy"
)

// backendPath joins escaped segments into an absolute backend path.
func backendPath(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return "/" + strings.Join(escaped, "/")
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}

// handleRequest forwards the request to path on the backend and relays its
// status and body. withQuery forwards the caller's query string as is.
func (a *API) handleRequest(c *gin.Context, method, path string, withQuery bool) {
	req := &proxy.Request{
		Method:        method,
		Path:          path,
		Authorization: c.GetHeader("Authorization"),
	}

	if hasBody(method) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			responseError(c, http.StatusBadRequest, "Failed to read request body")
			return
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if !json.Valid(body) {
				responseError(c, http.StatusBadRequest, "Invalid JSON body")
				return
			}
			req.Body = body
		}
	}

	if withQuery {
		req.Query = c.Request.URL.Query()
	}

	resp, err := a.backend.Forward(c.Request.Context(), req)
	if err != nil {
		logger.Error().Err(err).Str("method", method).Str("path", path).Msg("Backend request failed")
		responseError(c, http.StatusBadGateway, "Backend unavailable")
		return
	}

	c.Data(resp.StatusCode, resp.ContentType, resp.Body)
}
