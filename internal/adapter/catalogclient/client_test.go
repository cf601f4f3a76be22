package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Opt) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]Opt{RetryOpt(retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.LinearBackoff(time.Millisecond),
		ShouldRetry: isServerError,
	})}, opts...)
	c, err := New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func sampleProduct() domain.Product {
	return domain.Product{
		ID:            "fb-001",
		Name:          "Home Jersey",
		Category:      domain.CategoryFootball,
		Variants:      []domain.ProductVariant{{ID: "fb-001-m", Price: 49.99, Stock: 4, SKU: "S"}},
		BasePrice:     49.99,
		OriginalPrice: 69.99,
	}
}

func TestNew(t *testing.T) {
	_, err := New("not-a-url")
	assert.Error(t, err)

	_, err = New("http://backend", TimeoutOpt(0))
	assert.Error(t, err)

	c, err := New("http://backend/")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestListProducts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "anime", r.URL.Query().Get("category"))
		assert.Equal(t, "figure", r.URL.Query().Get("search"))
		assert.Equal(t, "true", r.URL.Query().Get("trending"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data":    []domain.Product{sampleProduct()},
		})
	})

	ps, err := c.ListProducts(t.Context(), domain.ProductQuery{
		Category: domain.CategoryAnime, Search: "figure", Trending: true, Limit: 5,
	})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, sampleProduct(), ps[0])
}

func TestGetProductNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/nope", r.URL.Path)
		writeEnvelope(t, w, http.StatusNotFound, map[string]any{
			"success": false, "error": "product not found",
		})
	})

	_, err := c.GetProduct(t.Context(), "nope")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode())
	assert.Equal(t, "product not found", apiErr.Message)
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestEnvelopeFailureOn200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": false, "message": "validation failed",
		})
	})

	_, err := c.CreateProduct(t.Context(), sampleProduct())
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "validation failed", apiErr.Message)
}

func TestCreateAndUpdateSendJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		switch r.Method {
		case http.MethodPost:
			var p domain.Product
			require.NoError(t, json.Unmarshal(body, &p))
			p.CreatedAt = "2026-01-01T00:00:00Z"
			writeEnvelope(t, w, http.StatusCreated, map[string]any{"success": true, "data": p})
		case http.MethodPut:
			assert.Equal(t, "/api/products/fb-001", r.URL.Path)
			assert.JSONEq(t, `{"name":"New"}`, string(body))
			p := sampleProduct()
			p.Name = "New"
			writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": p})
		}
	})

	created, err := c.CreateProduct(t.Context(), sampleProduct())
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01T00:00:00Z", created.CreatedAt)

	name := "New"
	updated, err := c.UpdateProduct(t.Context(), "fb-001", domain.ProductPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
}

func TestNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/fb-001":
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		case "/api/products/fb-001/stock":
			var su domain.StockUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&su))
			assert.Equal(t, domain.StockUpdate{VariantID: "fb-001-m", Stock: 2}, su)
			w.WriteHeader(http.StatusOK)
		}
	})

	require.NoError(t, c.DeleteProduct(t.Context(), "fb-001"))
	require.NoError(t, c.UpdateStock(t.Context(), "fb-001", domain.StockUpdate{VariantID: "fb-001-m", Stock: 2}))
}

func TestRetries(t *testing.T) {
	t.Run("GetRetriedOnServerError", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": sampleProduct()})
		})

		p, err := c.GetProduct(t.Context(), "fb-001")
		require.NoError(t, err)
		assert.Equal(t, "fb-001", p.ID)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("ClientErrorNotRetried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeEnvelope(t, w, http.StatusBadRequest, map[string]any{"success": false, "error": "bad"})
		})

		_, err := c.GetProduct(t.Context(), "fb-001")
		assert.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("WritesNotRetried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		err := c.DeleteProduct(t.Context(), "fb-001")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
		assert.Equal(t, int32(1), calls.Load())
	})
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, TimeoutOpt(20*time.Millisecond))
	defer close(release)

	err := c.DeleteProduct(t.Context(), "fb-001")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	_, err := c.GetProduct(t.Context(), "fb-001")
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := c.ListProducts(ctx, domain.ProductQuery{})
	assert.True(t, errors.Is(err, context.Canceled))
}
