// Package proxy forwards API calls to the CRM backend service.
package proxy

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/charleshuang3/teamcrm/internal/logging"
)

var (
	logger = logging.Component("proxy")
)

const defaultTimeout = 30 * time.Second

type Config struct {
	// BaseURL of the backend, e.g. https://backend.example.com/api
	BaseURL string `yaml:"base_url"`

	// TimeoutSeconds per forwarded call, 30 by default.
	TimeoutSeconds uint `yaml:"timeout_seconds"`
}

func (c *Config) Validate() {
	if c.BaseURL == "" {
		logger.Fatal().Msg("Backend: BaseURL is missing")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		logger.Fatal().Err(err).Msg("Backend: BaseURL is invalid")
	}
}

func (c *Config) timeout() time.Duration {
	if c.TimeoutSeconds == 0 {
		return defaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Request is one call to forward. Body and Query are optional.
type Request struct {
	Method        string
	Path          string
	Body          json.RawMessage
	Query         url.Values
	Authorization string
}

// Response is what the backend answered.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

type Forwarder struct {
	client *resty.Client
}

func New(cfg *Config) *Forwarder {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.timeout()).
		SetHeader("Accept", "application/json")

	return &Forwarder{
		client: client,
	}
}

// Forward sends the request once; there are no retries. A non-2xx backend
// answer is not an error, only transport failures are.
func (f *Forwarder) Forward(ctx context.Context, req *Request) (*Response, error) {
	r := f.client.R().SetContext(ctx)

	if req.Authorization != "" {
		r.SetHeader("Authorization", req.Authorization)
	}
	if len(req.Body) > 0 {
		r.SetHeader("Content-Type", "application/json").SetBody([]byte(req.Body))
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}

	logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Msg("forwarded")

	return &Response{
		StatusCode:  resp.StatusCode(),
		ContentType: contentType,
		Body:        resp.Body(),
	}, nil
}

// Healthy reports whether the backend answers at all.
func (f *Forwarder) Healthy(ctx context.Context) bool {
	resp, err := f.client.R().SetContext(ctx).Execute(http.MethodHead, "/")
	return err == nil && resp.StatusCode() < http.StatusInternalServerError
}
