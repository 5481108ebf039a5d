// Package backend is the HTTP client of the remote invoicing service.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sangkips/invoice-console/pkg/apperror"
)

// Error is returned for any response outside the 2xx range.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: backend responded %d", e.Method, e.Path, e.StatusCode)
}

// Client issues JSON requests against a base URL.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// Get decodes the response of GET path?query into out.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

// GetBytes returns the raw body of GET path?query.
func (c *Client) GetBytes(ctx context.Context, path string, query map[string]string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

// Put sends body as JSON to path?query and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, query map[string]string, body any, out any) error {
	resp, err := c.do(ctx, http.MethodPut, path, query, body)
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

// Delete calls DELETE path?query and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, query map[string]string, out any) error {
	resp, err := c.do(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return err
	}
	return decode(path, resp, out)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body any) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}
	return resp, nil
}

func decode(path string, resp *resty.Response, out any) error {
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// AsAppError classifies a failed backend call for display.
func AsAppError(err error) *apperror.AppError {
	if apperror.IsAppError(err) {
		return apperror.GetAppError(err)
	}
	var backendErr *Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.NewAppError(http.StatusGatewayTimeout, "The invoicing service took too long to respond")
	case errors.As(err, &backendErr):
		return apperror.NewBadGatewayError(fmt.Sprintf("The invoicing service rejected the request (%d)", backendErr.StatusCode))
	default:
		return apperror.ErrBadGateway
	}
}
