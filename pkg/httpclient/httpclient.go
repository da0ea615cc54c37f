package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response exposes the subset of an HTTP response the harvester needs.
type Response interface {
	StatusCode() int
	Body() []byte
	Header(key string) string
}

// Client issues GET requests with per-request headers. Implementations
// must honor context cancellation and apply a bounded timeout.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// restyClient wraps a resty.Client behind the Client interface.
type restyClient struct {
	client *resty.Client
}

// restyResponse adapts resty.Response to the Response interface.
type restyResponse struct {
	resp *resty.Response
}

func (r *restyResponse) StatusCode() int { return r.resp.StatusCode() }
func (r *restyResponse) Body() []byte    { return r.resp.Body() }
func (r *restyResponse) Header(key string) string {
	return r.resp.Header().Get(key)
}

// NewRestyClient builds a Client with the given request timeout and a
// small retry budget for transient network failures.
func NewRestyClient(timeout time.Duration) Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(2 * time.Second)

	return &restyClient{client: client}
}

// Get performs an HTTP GET honoring the context and headers.
func (c *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := c.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponse{resp: resp}, nil
}
