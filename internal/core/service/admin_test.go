package service

import (
	"context"
	"errors"
	"testing"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) ListProducts(ctx context.Context, q domain.ProductQuery) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]domain.Product)
	return ps, args.Error(1)
}

func (m *mockRemote) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockRemote) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockRemote) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *mockRemote) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRemote) UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error {
	return m.Called(ctx, productID, su).Error(0)
}

var errBackend = errors.New("backend unavailable")

func TestAdminCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("MirrorsBackendResult", func(t *testing.T) {
		store := &memSnapshots{}
		c := newLoadedCatalog(t, store)
		remote := &mockRemote{}

		in := testProduct("")
		out := testProduct("srv-1")
		out.CreatedAt = "2026-01-02T03:04:05Z"
		remote.On("CreateProduct", ctx, in).Return(out, nil).Once()

		got, err := NewAdmin(remote, c).Create(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, out, got)

		cached, ok := c.ByID("srv-1")
		require.True(t, ok)
		assert.Equal(t, out, cached)
		remote.AssertExpectations(t)
	})

	t.Run("RemoteFailureLeavesCacheUntouched", func(t *testing.T) {
		store := &memSnapshots{}
		c := newLoadedCatalog(t, store)
		saves := store.saves
		remote := &mockRemote{}

		p := testProduct("srv-2")
		remote.On("CreateProduct", ctx, p).Return(domain.Product{}, errBackend).Once()

		_, err := NewAdmin(remote, c).Create(ctx, p)
		assert.ErrorIs(t, err, errBackend)

		_, ok := c.ByID("srv-2")
		assert.False(t, ok)
		assert.Equal(t, saves, store.saves)
		remote.AssertExpectations(t)
	})
}

func TestAdminUpdateDelete(t *testing.T) {
	ctx := context.Background()
	c := newLoadedCatalog(t, &memSnapshots{})
	remote := &mockRemote{}
	admin := NewAdmin(remote, c)

	name := "Backend name"
	patch := domain.ProductPatch{Name: &name}
	before, _ := c.ByID("fb-003")
	after := patch.Apply(before)
	remote.On("UpdateProduct", ctx, "fb-003", patch).Return(after, nil).Once()

	got, err := admin.Update(ctx, "fb-003", patch)
	require.NoError(t, err)
	assert.Equal(t, "Backend name", got.Name)
	cached, _ := c.ByID("fb-003")
	assert.Equal(t, "Backend name", cached.Name)

	remote.On("DeleteProduct", ctx, "fb-003").Return(nil).Once()
	require.NoError(t, admin.Delete(ctx, "fb-003"))
	_, ok := c.ByID("fb-003")
	assert.False(t, ok)

	remote.On("DeleteProduct", ctx, "fb-001").Return(errBackend).Once()
	assert.ErrorIs(t, admin.Delete(ctx, "fb-001"), errBackend)
	_, ok = c.ByID("fb-001")
	assert.True(t, ok)

	remote.AssertExpectations(t)
}

func TestAdminUpdateStock(t *testing.T) {
	ctx := context.Background()
	c := newLoadedCatalog(t, &memSnapshots{})
	remote := &mockRemote{}
	admin := NewAdmin(remote, c)

	su := domain.StockUpdate{VariantID: "pc-001-m", Stock: 0}
	remote.On("UpdateStock", ctx, "pc-001", su).Return(nil).Once()
	require.NoError(t, admin.UpdateStock(ctx, "pc-001", su))

	p, _ := c.ByID("pc-001")
	v, _ := p.Variant("pc-001-m")
	assert.Equal(t, 0, v.Stock)

	missing := domain.StockUpdate{VariantID: "ghost-v", Stock: 2}
	remote.On("UpdateStock", ctx, "ghost", missing).Return(nil).Once()
	assert.NoError(t, admin.UpdateStock(ctx, "ghost", missing))

	remote.AssertExpectations(t)
}

func TestAdminSyncAndReset(t *testing.T) {
	ctx := context.Background()
	store := &memSnapshots{}
	c := newLoadedCatalog(t, store)
	remote := &mockRemote{}
	admin := NewAdmin(remote, c)

	remote.On("ListProducts", ctx, domain.ProductQuery{}).
		Return([]domain.Product{testProduct("a"), testProduct("b")}, nil).Once()

	n, err := admin.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, c.All(), 2)
	assert.Len(t, store.products(t), 2)

	remote.On("ListProducts", ctx, domain.ProductQuery{}).Return(nil, errBackend).Once()
	_, err = admin.Sync(ctx)
	assert.ErrorIs(t, err, errBackend)
	assert.Len(t, c.All(), 2)

	require.NoError(t, admin.Reset(ctx))
	assert.Equal(t, catalog.Defaults(), c.All())

	remote.AssertExpectations(t)
}
