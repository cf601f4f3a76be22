// Package catalogclient is the storefront's client for the backend catalog
// API.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

const (
	DefaultTimeout = 30 * time.Second

	defaultGetAttempts = 3
)

var (
	ErrTimeout     = errors.New("request timed out")
	ErrBadResponse = errors.New("malformed response")
)

// Error is a failed call: a non-2xx status or an envelope with success
// set to false. Status is 0 when the request never got a response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// StatusCode reports the HTTP status of the failed call.
func (e *Error) StatusCode() int {
	return e.Status
}

// Is maps a 404 onto [port.ErrNotFound].
func (e *Error) Is(target error) bool {
	return target == port.ErrNotFound && e.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type Opt func(*Client) error

func TimeoutOpt(d time.Duration) Opt {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

func HTTPClientOpt(hc *http.Client) Opt {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client is nil")
		}
		c.hc = hc
		return nil
	}
}

func RetryOpt(rc retry.RetryConfig) Opt {
	return func(c *Client) error {
		c.retry = rc
		return nil
	}
}

var _ port.CatalogRemote = (*Client)(nil)

type Client struct {
	baseURL *url.URL
	hc      *http.Client
	timeout time.Duration
	retry   retry.RetryConfig
}

func New(baseURL string, opts ...Opt) (*Client, error) {
	const op = "catalogclient.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, baseURL)
	}

	c := &Client{
		baseURL: u,
		hc:      http.DefaultClient,
		timeout: DefaultTimeout,
		retry: retry.RetryConfig{
			MaxAttempts: defaultGetAttempts,
			ShouldRetry: isServerError,
		},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return c, nil
}

func isServerError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Status >= http.StatusInternalServerError
}

func (c *Client) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Client.ListProducts"

	params := url.Values{}
	if q.Category != "" {
		params.Set("category", string(q.Category))
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Trending {
		params.Set("trending", "true")
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	var ps []domain.Product
	if err := c.get(ctx, "/products", params, &ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if ps == nil {
		ps = []domain.Product{}
	}
	return ps, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	const op = "Client.GetProduct"

	var p domain.Product
	if err := c.get(ctx, productPath(id), nil, &p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c *Client) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Client.CreateProduct"

	var created domain.Product
	if err := c.do(ctx, http.MethodPost, "/products", nil, p, &created); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (c *Client) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Client.UpdateProduct"

	var updated domain.Product
	err := c.do(ctx, http.MethodPut, productPath(id), nil, patch, &updated)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	const op = "Client.DeleteProduct"

	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, nil, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) UpdateStock(
	ctx context.Context, productID string, su domain.StockUpdate,
) error {
	const op = "Client.UpdateStock"

	path := productPath(productID) + "/stock"
	if err := c.do(ctx, http.MethodPut, path, nil, su, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func productPath(id string) string {
	return "/products/" + url.PathEscape(id)
}

func (c *Client) get(
	ctx context.Context, path string, params url.Values, out any,
) error {
	return retry.Do(ctx, c.retry, func() error {
		return c.do(ctx, http.MethodGet, path, params, nil, out)
	})
}

// do performs one request under the client timeout and decodes the
// envelope's data into out. A 204 or empty body leaves out untouched.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	params url.Values,
	body any,
	out any,
) error {
	const op = "Client.do"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, path, params, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %s %s: %w", op, method, path, ErrTimeout)
		}
		return fmt.Errorf("%s: %w", op, &Error{Message: err.Error()})
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%s: %s %s: %w", op, method, path, ErrTimeout)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := decodeResponse(resp.StatusCode, raw, out); err != nil {
		return fmt.Errorf("%s: %s %s: %w", op, method, path, err)
	}
	return nil
}

func (c *Client) newRequest(
	ctx context.Context, method, path string, params url.Values, body any,
) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(params) != 0 {
		u.RawQuery = params.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func decodeResponse(status int, raw []byte, out any) error {
	ok := status >= 200 && status < 300

	if status == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		if ok {
			return nil
		}
		return &Error{Status: status, Message: http.StatusText(status)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !ok {
			return &Error{Status: status, Message: http.StatusText(status)}
		}
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}

	if !ok || !env.Success {
		return &Error{Status: status, Message: env.errorMessage(status)}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrBadResponse, err)
	}
	return nil
}

func (env envelope) errorMessage(status int) string {
	switch {
	case env.Error != "":
		return env.Error
	case env.Message != "":
		return env.Message
	default:
		return http.StatusText(status)
	}
}
