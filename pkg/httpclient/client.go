// Package httpclient is the shared fasthttp-based upstream client used by
// the geocoder and the road router: acquire a pooled *fasthttp.Request,
// let a BeforeRequestFn customize it, send with a pooled
// *fasthttp.Response, and release both via defer.
package httpclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"freightcore/pkg/config"
)

// BeforeRequestFn customizes a request before it is sent, e.g. to add a
// required header.
type BeforeRequestFn func(req *fasthttp.Request) error

// Config is the subset of upstream-client settings shared by the geocoder
// and road router configs.
type Config struct {
	Endpoint  string
	UserAgent string
	Timeout   time.Duration
}

// Client wraps a fasthttp.Client with the pooled request/response lifecycle
// and a pluggable BeforeRequestFn hook.
type Client struct {
	cfg             Config
	hc              *fasthttp.Client
	beforeRequestFn BeforeRequestFn
}

// New creates a Client for the given upstream endpoint.
func New(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		hc: &fasthttp.Client{
			Name: "freightcore-http-client",
		},
	}
}

// FromGeocoderConfig adapts config.GeocoderConfig into a Client.
func FromGeocoderConfig(cfg config.GeocoderConfig) *Client {
	return New(Config{Endpoint: cfg.Endpoint, UserAgent: cfg.UserAgent, Timeout: cfg.Timeout})
}

// FromRoadRouterConfig adapts config.RoadRouterConfig into a Client.
func FromRoadRouterConfig(cfg config.RoadRouterConfig) *Client {
	return New(Config{Endpoint: cfg.Endpoint, UserAgent: cfg.UserAgent, Timeout: cfg.Timeout})
}

// BeforeRequest installs a hook called on every outgoing request, after the
// default User-Agent header is set, before the body is attached.
func (c *Client) BeforeRequest(fn BeforeRequestFn) {
	c.beforeRequestFn = fn
}

// GetFastHTTPClient exposes the underlying client for advanced tuning.
func (c *Client) GetFastHTTPClient() *fasthttp.Client {
	return c.hc
}

func (c *Client) buildRequest(method, path string, query url.Values) (*fasthttp.Request, error) {
	req := fasthttp.AcquireRequest()
	req.Header.SetMethod(method)

	uri := c.cfg.Endpoint + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	if err := req.URI().Parse(nil, []byte(uri)); err != nil {
		fasthttp.ReleaseRequest(req)
		return nil, fmt.Errorf("httpclient: build request uri: %w", err)
	}

	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	if c.beforeRequestFn != nil {
		if err := c.beforeRequestFn(req); err != nil {
			fasthttp.ReleaseRequest(req)
			return nil, fmt.Errorf("httpclient: BeforeRequest hook: %w", err)
		}
	}

	return req, nil
}

// GetJSON issues a GET request with the given query parameters and decodes
// a JSON response body into out. A non-2xx status is returned as *StatusError.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.buildRequest(fasthttp.MethodGet, path, query)
	if err != nil {
		return err
	}
	defer fasthttp.ReleaseRequest(req)

	return c.do(ctx, req, out)
}

// PostJSON issues a POST request with a JSON-encoded body and decodes a
// JSON response body into out.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	req, err := c.buildRequest(fasthttp.MethodPost, path, nil)
	if err != nil {
		return err
	}
	defer fasthttp.ReleaseRequest(req)

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpclient: encode request body: %w", err)
		}
		req.SetBody(bodyBytes)
		req.Header.SetContentType("application/json")
	}

	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if c.cfg.Timeout > 0 {
		err = c.hc.DoTimeout(req, resp, c.cfg.Timeout)
	} else {
		err = c.hc.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("httpclient: request to %s: %w", req.URI().String(), err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("httpclient: decode response body: %w", err)
	}
	return nil
}
