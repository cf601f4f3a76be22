package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var (
	ErrNotFound      = port.ErrNotFound
	ErrAlreadyExists = port.ErrAlreadyExists
)

var _ port.ProductsService = (*ProductService)(nil)

// ProductService is the backend's product use cases. Every committed change
// is published as a catalog event; publishing failures are logged and do not
// roll back the change.
type ProductService struct {
	repo     port.ProductsRepository
	producer port.CatalogEventsProducer
	now      func() time.Time
}

// NewProductService creates the service. A nil producer disables event
// publishing.
func NewProductService(
	repo port.ProductsRepository, producer port.CatalogEventsProducer,
) ProductService {
	if producer == nil {
		producer = noopProducer{}
	}
	return ProductService{repo: repo, producer: producer, now: time.Now}
}

func (s ProductService) ListProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "ProductService.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s ProductService) GetProduct(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "ProductService.GetProduct"

	p, err := s.repo.ReadProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// CreateProduct assigns an id when the product has none and stamps the
// creation time.
func (s ProductService) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "ProductService.CreateProduct"

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	ts := s.timestamp()
	p.CreatedAt, p.UpdatedAt = ts, ts

	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.CatalogEvent{
		Type: domain.ProductCreated, ProductID: p.ID, Product: &p,
	})
	return p, nil
}

func (s ProductService) UpdateProduct(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "ProductService.UpdateProduct"

	cur, err := s.repo.ReadProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p := patch.Apply(cur)
	p.UpdatedAt = s.timestamp()
	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.CatalogEvent{
		Type: domain.ProductUpdated, ProductID: p.ID, Product: &p,
	})
	return p, nil
}

func (s ProductService) DeleteProduct(ctx context.Context, id string) error {
	const op = "ProductService.DeleteProduct"

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.CatalogEvent{
		Type: domain.ProductDeleted, ProductID: id,
	})
	return nil
}

func (s ProductService) UpdateStock(
	ctx context.Context, productID string, su domain.StockUpdate,
) error {
	const op = "ProductService.UpdateStock"

	if su.Stock < 0 {
		return fmt.Errorf("%s: %w: negative stock", op, domain.ErrInvalidProduct)
	}

	if _, err := s.repo.UpdateStock(ctx, productID, su); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.publish(ctx, domain.CatalogEvent{
		Type:      domain.StockChanged,
		ProductID: productID,
		VariantID: su.VariantID,
		Stock:     su.Stock,
	})
	return nil
}

func (s ProductService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func (s ProductService) publish(ctx context.Context, evt domain.CatalogEvent) {
	const op = "ProductService.publish"

	evt.OccurredAt = s.now().UTC()
	if err := s.producer.ProduceEvents(ctx, evt); err != nil {
		slog.Error(
			"failed to publish catalog event",
			"op", op, "type", evt.Type, "productID", evt.ProductID, "err", err,
		)
	}
}

type noopProducer struct{}

func (noopProducer) ProduceEvents(context.Context, ...domain.CatalogEvent) error {
	return nil
}
