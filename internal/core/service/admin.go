package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogAdmin = (*Admin)(nil)

// Admin writes through to the backend first and mirrors the result into
// the local catalog. A failed remote call leaves the catalog untouched.
type Admin struct {
	remote  port.CatalogRemote
	catalog *Catalog
}

func NewAdmin(remote port.CatalogRemote, catalog *Catalog) Admin {
	return Admin{remote: remote, catalog: catalog}
}

func (a Admin) Create(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Admin.Create"

	created, err := a.remote.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.catalog.Upsert(ctx, created); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (a Admin) Update(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Admin.Update"

	updated, err := a.remote.UpdateProduct(ctx, id, patch)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.catalog.Upsert(ctx, updated); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (a Admin) Delete(ctx context.Context, id string) error {
	const op = "Admin.Delete"

	if err := a.remote.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := a.catalog.Delete(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (a Admin) UpdateStock(
	ctx context.Context, productID string, su domain.StockUpdate,
) error {
	const op = "Admin.UpdateStock"

	if err := a.remote.UpdateStock(ctx, productID, su); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := a.catalog.UpdateStock(ctx, productID, su); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		slog.Warn("stock updated remotely for a product missing locally",
			"op", op, "productID", productID, "variantID", su.VariantID)
	}
	return nil
}

// Sync replaces the local catalog with the backend's full product list and
// returns the number of products received.
func (a Admin) Sync(ctx context.Context) (int, error) {
	const op = "Admin.Sync"

	ps, err := a.remote.ListProducts(ctx, domain.ProductQuery{})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := a.catalog.ReplaceAll(ctx, ps); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	slog.Info("catalog synced", "op", op, "nProducts", len(ps))
	return len(ps), nil
}

func (a Admin) Reset(ctx context.Context) error {
	const op = "Admin.Reset"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	a.catalog.Reset(ctx)
	return nil
}
