package port

import (
	"context"
	"errors"

	"github.com/niksmo/storefront/internal/core/domain"
)

// ErrNotFound is returned by stores and repositories when the key or row
// does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a product whose id is taken.
var ErrAlreadyExists = errors.New("already exists")

// A SnapshotStore persists the serialized catalog snapshot.
type SnapshotStore interface {
	Load(context.Context) ([]byte, error)
	Save(context.Context, []byte) error
	Clear(context.Context) error
}

// A PreferenceStore persists the user's currency selection.
type PreferenceStore interface {
	LoadCurrency(context.Context) (string, error)
	SaveCurrency(context.Context, string) error
}

// A CatalogRemote is the backend CRUD API seen from the storefront.
type CatalogRemote interface {
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error
}

type ProductsRepository interface {
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	ReadProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(context.Context, domain.Product) error
	UpdateProduct(context.Context, domain.Product) error
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) (domain.Product, error)
}

type CatalogEventsProducer interface {
	ProduceEvents(context.Context, ...domain.CatalogEvent) error
}

type CatalogEventsHandler interface {
	HandleCatalogEvents(context.Context, []domain.CatalogEvent) error
}

// Inbound ports used by the HTTP adapters.

type ProductsService interface {
	ListProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error
}

type CatalogReader interface {
	All() []domain.Product
	ByID(id string) (domain.Product, bool)
	ByCategory(domain.Category) []domain.Product
	BySubcategory(string) []domain.Product
	Trending(limit int) []domain.Product
	Search(query string) []domain.Product
	Query(domain.ProductQuery) []domain.Product
}

type CatalogAdmin interface {
	Create(context.Context, domain.Product) (domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateStock(ctx context.Context, productID string, su domain.StockUpdate) error
	Sync(context.Context) (int, error)
	Reset(context.Context) error
}

type CommerceSession interface {
	Context() domain.CommerceContext
	Currency() domain.Currency
	SetCurrency(ctx context.Context, code string) error
	SetCountry(code string)
	Price(usd float64) domain.DisplayPrice
	ShippingInfo() domain.ShippingInfo
	ShippingCost(orderValue float64, baseDays int) domain.ShippingQuote
	PaymentMethods() []domain.PaymentMethod
	CODEligible() bool
}

type PaymentInitiator interface {
	Initiate(context.Context, domain.PaymentRequest) (domain.PaymentIntent, error)
}
