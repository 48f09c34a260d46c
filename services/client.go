package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MixinNetwork/issuance/ledger"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// Error is returned for every non 2xx response of a downstream service.
type Error struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s => %d %s", e.Method, e.Path, e.Status, e.Body)
}

// Unwrap reports client errors other than timeouts and rate limits as
// rejected, the same request would fail again.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return nil
	case e.Status >= 400 && e.Status < 500:
		return ledger.ErrRejected
	}
	return nil
}

type client struct {
	http *resty.Client
}

func newClient(endpoint string) *client {
	c := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(defaultTimeout).
		SetHeader("Content-Type", "application/json")
	return &client{http: c}
}

func (c *client) post(ctx context.Context, path string, params map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx).SetPathParams(params).SetBody(body)
	if out != nil {
		req = req.SetResult(out)
	}
	resp, err := req.Post(path)
	return c.check("POST", resp, err)
}

func (c *client) get(ctx context.Context, path string, params map[string]string, out any) error {
	resp, err := c.http.R().SetContext(ctx).SetPathParams(params).SetResult(out).Get(path)
	return c.check("GET", resp, err)
}

func (c *client) check(method string, resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	return &Error{
		Method: method,
		Path:   resp.Request.URL,
		Status: resp.StatusCode(),
		Body:   resp.String(),
	}
}
