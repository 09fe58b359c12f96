package cmdb

import (
	"context"
	"net/http"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Executor dispatches one request to the CMDB and returns the raw body
type Executor interface {
	Execute(ctx context.Context, req *Request) ([]byte, error)
}

// Client is the HTTP executor for the CMDB query API. Each request is a GET
// to <base>/<route> with the request parameters as query values and the
// request credentials as basic auth.
type Client struct {
	resty  *resty.Client
	routes map[string]string
	log    *zap.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithTimeout bounds each request
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.resty.SetTimeout(d)
		}
	}
}

// WithRoutes maps operation targets to URL paths. Targets without a route
// are used as the path verbatim.
func WithRoutes(routes map[string]string) ClientOption {
	return func(c *Client) {
		for target, path := range routes {
			c.routes[target] = path
		}
	}
}

// WithTransport replaces the HTTP transport, e.g. for custom TLS settings
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) {
		if rt != nil {
			c.resty.SetTransport(rt)
		}
	}
}

// WithLogger sets the client logger
func WithLogger(log *zap.Logger) ClientOption {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient creates a CMDB client for the API rooted at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	rc := resty.New()
	rc.SetBaseURL(strings.TrimRight(baseURL, "/"))
	rc.SetHeader("Accept", "application/json")

	c := &Client{
		resty:  rc,
		routes: make(map[string]string),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute sends the request and returns the response body. Non-success
// statuses are returned as *RemoteQueryError.
func (c *Client) Execute(ctx context.Context, req *Request) ([]byte, error) {
	target := req.Target()
	if target == "" {
		return nil, ErrNoTarget
	}

	r := c.resty.R().
		SetContext(ctx).
		SetQueryParamsFromValues(req.Query())

	if creds := req.Credentials(); !creds.Empty() {
		r.SetBasicAuth(creds.User, creds.Password)
	}

	path := c.route(target)
	start := time.Now()
	res, err := r.Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cmdb query %s", target)
	}

	c.log.Debug("cmdb query",
		zap.String("target", target),
		zap.String("path", path),
		zap.Int("status", res.StatusCode()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if !res.IsSuccess() {
		return nil, newRemoteQueryError(target, res.StatusCode(), res.Status(), res.Body())
	}
	return res.Body(), nil
}

func (c *Client) route(target string) string {
	if path, ok := c.routes[target]; ok {
		return "/" + strings.TrimLeft(path, "/")
	}
	return "/" + strings.TrimLeft(target, "/")
}
