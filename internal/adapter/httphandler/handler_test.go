package httphandler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/kvstore"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/commerce"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func do(
	t *testing.T, h http.Handler, method, target, body string,
) (int, envelope) {
	t.Helper()
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

type mockProductsService struct {
	mock.Mock
}

func (m *mockProductsService) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductsService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductsService) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductsService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockProductsService) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductsService) UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error {
	return m.Called(ctx, productID, su).Error(0)
}

func newProductsMux(svc port.ProductsService) http.Handler {
	mux := http.NewServeMux()
	RegisterProducts(mux, svc)
	return AllowJSON(mux)
}

func TestProductsHandler(t *testing.T) {
	p := catalog.Defaults()[0]

	t.Run("ListParsesQuery", func(t *testing.T) {
		svc := new(mockProductsService)
		want := domain.ProductQuery{
			Category: domain.CategoryFootball, Search: "jersey", Trending: true, Limit: 2,
		}
		svc.On("ListProducts", mock.Anything, want).Return([]domain.Product{p}, nil)

		status, env := do(t, newProductsMux(svc), http.MethodGet,
			"/products?category=football&search=jersey&trending=true&limit=2", "")
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)

		var got []domain.Product
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, p.ID, got[0].ID)
		svc.AssertExpectations(t)
	})

	t.Run("BadLimit", func(t *testing.T) {
		status, env := do(t, newProductsMux(new(mockProductsService)),
			http.MethodGet, "/products?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, env.Success)
	})

	t.Run("GetNotFound", func(t *testing.T) {
		svc := new(mockProductsService)
		svc.On("GetProduct", mock.Anything, "nope").
			Return(domain.Product{}, port.ErrNotFound)

		status, env := do(t, newProductsMux(svc), http.MethodGet, "/products/nope", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("CreateConflict", func(t *testing.T) {
		svc := new(mockProductsService)
		svc.On("CreateProduct", mock.Anything, mock.Anything).
			Return(domain.Product{}, port.ErrAlreadyExists)

		body, err := json.Marshal(p)
		require.NoError(t, err)
		status, _ := do(t, newProductsMux(svc), http.MethodPost, "/products", string(body))
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("CreateInvalidJSON", func(t *testing.T) {
		status, env := do(t, newProductsMux(new(mockProductsService)),
			http.MethodPost, "/products", "{")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid JSON data", env.Error)
	})

	t.Run("UpdateStock", func(t *testing.T) {
		svc := new(mockProductsService)
		su := domain.StockUpdate{VariantID: "fb-001-s", Stock: 3}
		svc.On("UpdateStock", mock.Anything, "fb-001", su).Return(nil)

		status, env := do(t, newProductsMux(svc), http.MethodPut,
			"/products/fb-001/stock", `{"variantId":"fb-001-s","stock":3}`)
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, env.Success)
		svc.AssertExpectations(t)
	})

	t.Run("InvalidProductIsBadRequest", func(t *testing.T) {
		svc := new(mockProductsService)
		svc.On("UpdateStock", mock.Anything, "fb-001", mock.Anything).
			Return(domain.ErrInvalidProduct)

		status, _ := do(t, newProductsMux(svc), http.MethodPut,
			"/products/fb-001/stock", `{"variantId":"fb-001-s","stock":-1}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("InternalErrorHidden", func(t *testing.T) {
		svc := new(mockProductsService)
		svc.On("DeleteProduct", mock.Anything, "fb-001").
			Return(assert.AnError)

		status, env := do(t, newProductsMux(svc), http.MethodDelete, "/products/fb-001", "")
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), env.Error)
	})
}

func TestAllowJSON(t *testing.T) {
	h := newProductsMux(new(mockProductsService))

	r := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("x=1"))
	r.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	svc := new(mockProductsService)
	svc.On("UpdateStock", mock.Anything, "a", mock.Anything).Return(nil)
	r = httptest.NewRequest(http.MethodPut, "/products/a/stock",
		strings.NewReader(`{"variantId":"v","stock":1}`))
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	newProductsMux(svc).ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

type mockAdmin struct {
	mock.Mock
}

func (m *mockAdmin) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockAdmin) Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockAdmin) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockAdmin) UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error {
	return m.Called(ctx, productID, su).Error(0)
}

func (m *mockAdmin) Sync(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockAdmin) Reset(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type upstreamErr struct{ status int }

func (e upstreamErr) Error() string   { return "upstream failed" }
func (e upstreamErr) StatusCode() int { return e.status }

func newStorefrontMux(t *testing.T, admin port.CatalogAdmin) http.Handler {
	t.Helper()
	ctx := context.Background()

	fs, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	cat := service.NewCatalog(kvstore.NewCatalogSnapshot(fs), catalog.Defaults)
	cat.Load(ctx)

	resolver := commerce.NewResolver(commerce.DefaultCurrencies(), commerce.DefaultPolicy())
	session := service.NewSession(ctx, resolver, kvstore.NewCurrencyPreference(fs),
		commerce.Signals{Locale: "en-US", TimeZone: "America/New_York"})

	mux := http.NewServeMux()
	RegisterStorefront(mux, cat, session, service.NewPayments(session), admin)
	return AllowJSON(mux)
}

func TestStorefrontCatalog(t *testing.T) {
	h := newStorefrontMux(t, new(mockAdmin))

	t.Run("ListByCategory", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/products?category=anime", "")
		require.Equal(t, http.StatusOK, status)

		var ps []StorefrontProduct
		require.NoError(t, json.Unmarshal(env.Data, &ps))
		require.NotEmpty(t, ps)
		for _, p := range ps {
			assert.Equal(t, domain.CategoryAnime, p.Category)
			assert.Equal(t, "USD", p.DisplayPrice.Currency)
		}
	})

	t.Run("ListBySubcategory", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/products?subcategory=figures", "")
		require.Equal(t, http.StatusOK, status)

		var ps []StorefrontProduct
		require.NoError(t, json.Unmarshal(env.Data, &ps))
		for _, p := range ps {
			assert.Equal(t, "figures", p.Subcategory)
		}
	})

	t.Run("TrendingLimit", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/products?trending=true&limit=1", "")
		require.Equal(t, http.StatusOK, status)

		var ps []StorefrontProduct
		require.NoError(t, json.Unmarshal(env.Data, &ps))
		require.Len(t, ps, 1)
		assert.Equal(t, "fb-001", ps[0].ID)
	})

	t.Run("GetProduct", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/products/an-002", "")
		require.Equal(t, http.StatusOK, status)

		var p StorefrontProduct
		require.NoError(t, json.Unmarshal(env.Data, &p))
		assert.Equal(t, "an-002", p.ID)
		assert.InDelta(t, p.BasePrice, p.DisplayPrice.Amount, 0.001)
	})

	t.Run("GetMissingProduct", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/products/none", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.False(t, env.Success)
	})
}

func TestStorefrontCommerce(t *testing.T) {
	h := newStorefrontMux(t, new(mockAdmin))

	t.Run("Context", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet, "/v1/commerce/context", "")
		require.Equal(t, http.StatusOK, status)

		var cc CommerceContext
		require.NoError(t, json.Unmarshal(env.Data, &cc))
		assert.Equal(t, "USD", cc.Currency)
		assert.Equal(t, "US", cc.Country)
		assert.False(t, cc.CODEligible)
	})

	t.Run("UnknownCurrency", func(t *testing.T) {
		status, _ := do(t, h, http.MethodPut, "/v1/commerce/currency", `{"code":"XYZ"}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("CODBlockedOutsideIndia", func(t *testing.T) {
		status, _ := do(t, h, http.MethodPost, "/v1/checkout/payments",
			`{"method":"cod","amount":20}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("CardPayment", func(t *testing.T) {
		status, env := do(t, h, http.MethodPost, "/v1/checkout/payments",
			`{"method":"card","amount":20}`)
		require.Equal(t, http.StatusCreated, status)

		var intent domain.PaymentIntent
		require.NoError(t, json.Unmarshal(env.Data, &intent))
		assert.True(t, strings.HasPrefix(intent.Reference, "pay_"))
		assert.Equal(t, "USD", intent.Currency)
	})

	t.Run("SwitchToIndia", func(t *testing.T) {
		status, _ := do(t, h, http.MethodPut, "/v1/commerce/currency", `{"code":"INR"}`)
		require.Equal(t, http.StatusOK, status)
		status, env := do(t, h, http.MethodPut, "/v1/commerce/country", `{"country":"in"}`)
		require.Equal(t, http.StatusOK, status)

		var cc CommerceContext
		require.NoError(t, json.Unmarshal(env.Data, &cc))
		assert.Equal(t, "INR", cc.Currency)
		assert.Equal(t, "IN", cc.Country)
		assert.True(t, cc.CODEligible)

		status, env = do(t, h, http.MethodPost, "/v1/checkout/payments",
			`{"method":"cod","amount":1500}`)
		require.Equal(t, http.StatusCreated, status)
		var intent domain.PaymentIntent
		require.NoError(t, json.Unmarshal(env.Data, &intent))
		assert.Equal(t, domain.PaymentAwaitingDelivery, intent.Status)
	})

	t.Run("Shipping", func(t *testing.T) {
		status, env := do(t, h, http.MethodGet,
			"/v1/commerce/shipping?orderValue=1000&baseDays=3", "")
		require.Equal(t, http.StatusOK, status)

		var q ShippingQuote
		require.NoError(t, json.Unmarshal(env.Data, &q))
		assert.True(t, q.IsFree)
		assert.Zero(t, q.Cost)
	})

	t.Run("ShippingBadQuery", func(t *testing.T) {
		status, _ := do(t, h, http.MethodGet, "/v1/commerce/shipping?orderValue=abc", "")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("ShippingNonFiniteOrderValue", func(t *testing.T) {
		for _, v := range []string{"NaN", "Inf", "-Inf", "1e400"} {
			status, _ := do(t, h, http.MethodGet, "/v1/commerce/shipping?orderValue="+v, "")
			assert.Equal(t, http.StatusBadRequest, status, v)
		}
	})
}

func TestStorefrontAdmin(t *testing.T) {
	t.Run("Sync", func(t *testing.T) {
		admin := new(mockAdmin)
		admin.On("Sync", mock.Anything).Return(7, nil)

		status, env := do(t, newStorefrontMux(t, admin), http.MethodPost, "/v1/admin/catalog/sync", "")
		require.Equal(t, http.StatusOK, status)

		var res SyncResult
		require.NoError(t, json.Unmarshal(env.Data, &res))
		assert.Equal(t, 7, res.Synced)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		admin := new(mockAdmin)
		admin.On("Delete", mock.Anything, "fb-001").Return(upstreamErr{http.StatusServiceUnavailable})

		status, _ := do(t, newStorefrontMux(t, admin), http.MethodDelete, "/v1/admin/products/fb-001", "")
		assert.Equal(t, http.StatusBadGateway, status)
	})

	t.Run("UpstreamRejection", func(t *testing.T) {
		admin := new(mockAdmin)
		admin.On("Create", mock.Anything, mock.Anything).
			Return(domain.Product{}, upstreamErr{http.StatusUnprocessableEntity})

		status, _ := do(t, newStorefrontMux(t, admin), http.MethodPost, "/v1/admin/products", `{"id":"x"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("Reset", func(t *testing.T) {
		admin := new(mockAdmin)
		admin.On("Reset", mock.Anything).Return(nil)

		status, env := do(t, newStorefrontMux(t, admin), http.MethodPost, "/v1/admin/catalog/reset", "")
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "catalog reset", env.Message)
		admin.AssertExpectations(t)
	})
}
