package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const (
	DefaultTrendingLimit = 8

	lazyLoadTimeout = 5 * time.Second
)

var _ port.CatalogReader = (*Catalog)(nil)
var _ port.CatalogEventsHandler = (*Catalog)(nil)

// CatalogState is the lifecycle state of a Catalog.
type CatalogState int

const (
	StateUninitialized CatalogState = iota
	StateSeeded
	StateRestored
)

func (s CatalogState) String() string {
	switch s {
	case StateSeeded:
		return "seeded"
	case StateRestored:
		return "restored"
	default:
		return "uninitialized"
	}
}

// A Catalog is the storefront's local mirror of the product catalog.
//
// Every mutation replaces the product sequence and re-persists the whole
// snapshot before returning. Persistence failures are logged and switch the
// catalog to memory-only mode; they never fail the mutation.
type Catalog struct {
	store    port.SnapshotStore
	defaults func() []domain.Product

	mu         sync.RWMutex
	state      CatalogState
	products   []domain.Product
	memoryOnly bool
}

// NewCatalog creates an unloaded catalog. defaults must return a fresh
// slice on every call.
func NewCatalog(
	store port.SnapshotStore, defaults func() []domain.Product,
) *Catalog {
	return &Catalog{store: store, defaults: defaults}
}

// Load reads the persisted snapshot, seeding from the defaults when it is
// absent, unreadable, not a list or empty.
func (c *Catalog) Load(ctx context.Context) CatalogState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

func (c *Catalog) load(ctx context.Context) CatalogState {
	const op = "Catalog.load"
	log := slog.With("op", op)

	ps, err := c.readSnapshot(ctx)
	if err != nil {
		if !errors.Is(err, port.ErrNotFound) {
			log.Warn("discarding persisted snapshot", "err", err)
		}
		c.seed(ctx)
		log.Info("catalog seeded", "nProducts", len(c.products))
		return c.state
	}

	c.products = ps
	c.state = StateRestored
	log.Info("catalog restored", "nProducts", len(ps))
	return c.state
}

var errEmptySnapshot = errors.New("empty snapshot")

func (c *Catalog) readSnapshot(ctx context.Context) ([]domain.Product, error) {
	const op = "Catalog.readSnapshot"

	data, err := c.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// A list whose elements are not products is unreadable, not adopted.
	var ps []domain.Product
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ps) == 0 {
		return nil, fmt.Errorf("%s: %w", op, errEmptySnapshot)
	}
	return ps, nil
}

func (c *Catalog) seed(ctx context.Context) {
	c.products = c.defaults()
	c.state = StateSeeded
	c.persist(ctx)
}

// persist writes the whole snapshot. Callers hold the write lock.
func (c *Catalog) persist(ctx context.Context) {
	const op = "Catalog.persist"
	log := slog.With("op", op)

	data, err := json.Marshal(c.products)
	if err == nil {
		err = c.store.Save(ctx, data)
	}
	if err != nil {
		if !c.memoryOnly {
			log.Error("failed to persist snapshot, continuing in memory", "err", err)
		}
		c.memoryOnly = true
		return
	}
	if c.memoryOnly {
		log.Info("snapshot persisted again, leaving memory-only mode")
	}
	c.memoryOnly = false
}

// ensureLoaded loads the catalog on first access.
func (c *Catalog) ensureLoaded() {
	c.mu.RLock()
	loaded := c.state != StateUninitialized
	c.mu.RUnlock()
	if loaded {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUninitialized {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), lazyLoadTimeout)
	defer cancel()
	c.load(ctx)
}

func (c *Catalog) lockLoaded(ctx context.Context) {
	c.mu.Lock()
	if c.state == StateUninitialized {
		c.load(ctx)
	}
}

func (c *Catalog) State() CatalogState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// MemoryOnly reports whether the last persist attempt failed.
func (c *Catalog) MemoryOnly() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.memoryOnly
}

func (c *Catalog) filter(keep func(domain.Product) bool) []domain.Product {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []domain.Product{}
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (c *Catalog) All() []domain.Product {
	return c.filter(func(domain.Product) bool { return true })
}

// ByID returns the first product with the given id.
func (c *Catalog) ByID(id string) (domain.Product, bool) {
	c.ensureLoaded()
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.products[i].Clone(), true
	}
	return domain.Product{}, false
}

func (c *Catalog) ByCategory(category domain.Category) []domain.Product {
	return c.filter(func(p domain.Product) bool {
		return p.Category == category
	})
}

func (c *Catalog) BySubcategory(subcategory string) []domain.Product {
	return c.filter(func(p domain.Product) bool {
		return p.Subcategory == subcategory
	})
}

// Trending returns up to limit trending products in storage order. A
// non-positive limit means DefaultTrendingLimit.
func (c *Catalog) Trending(limit int) []domain.Product {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}
	ps := c.filter(func(p domain.Product) bool { return p.IsTrending })
	if len(ps) > limit {
		ps = ps[:limit]
	}
	return ps
}

// Search matches the query case-insensitively against name, description
// and tags. There is no relevance ordering.
func (c *Catalog) Search(query string) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	return c.filter(func(p domain.Product) bool {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			return true
		}
		return slices.ContainsFunc(p.Tags, func(tag string) bool {
			return strings.Contains(strings.ToLower(tag), q)
		})
	})
}

// Query applies a remote-style product query to the local catalog.
func (c *Catalog) Query(q domain.ProductQuery) []domain.Product {
	var ps []domain.Product
	if q.Search != "" {
		ps = c.Search(q.Search)
	} else {
		ps = c.All()
	}

	out := ps[:0]
	for _, p := range ps {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Trending && !p.IsTrending {
			continue
		}
		out = append(out, p)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

// Add appends a product. The id must not exist yet.
func (c *Catalog) Add(ctx context.Context, p domain.Product) error {
	const op = "Catalog.Add"

	if err := c.validate(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	if c.indexOf(p.ID) >= 0 {
		return fmt.Errorf("%s: %q: %w", op, p.ID, ErrAlreadyExists)
	}

	next := make([]domain.Product, 0, len(c.products)+1)
	next = append(next, c.products...)
	next = append(next, p.Clone())
	c.products = next
	c.persist(ctx)
	return nil
}

// Update applies a patch to an existing product and returns the result.
func (c *Catalog) Update(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "Catalog.Update"

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.Product{}, fmt.Errorf("%s: %q: %w", op, id, ErrNotFound)
	}

	updated := patch.Apply(c.products[i])
	if err := c.validate(updated); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	c.replaceAt(i, updated)
	c.persist(ctx)
	return updated.Clone(), nil
}

// Upsert replaces the product with the same id in place, or appends it.
func (c *Catalog) Upsert(ctx context.Context, p domain.Product) error {
	const op = "Catalog.Upsert"

	if err := c.validate(p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	c.upsert(p)
	c.persist(ctx)
	return nil
}

func (c *Catalog) upsert(p domain.Product) {
	if i := c.indexOf(p.ID); i >= 0 {
		c.replaceAt(i, p)
		return
	}
	next := make([]domain.Product, 0, len(c.products)+1)
	next = append(next, c.products...)
	c.products = append(next, p.Clone())
}

func (c *Catalog) replaceAt(i int, p domain.Product) {
	next := slices.Clone(c.products)
	next[i] = p.Clone()
	c.products = next
}

// Delete removes the product with the given id.
func (c *Catalog) Delete(ctx context.Context, id string) error {
	const op = "Catalog.Delete"

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	if !c.remove(id) {
		return fmt.Errorf("%s: %q: %w", op, id, ErrNotFound)
	}
	c.persist(ctx)
	return nil
}

func (c *Catalog) remove(id string) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.products = slices.Delete(slices.Clone(c.products), i, i+1)
	return true
}

// UpdateStock sets the stock of one variant.
func (c *Catalog) UpdateStock(
	ctx context.Context, productID string, su domain.StockUpdate,
) error {
	const op = "Catalog.UpdateStock"

	if su.Stock < 0 {
		return fmt.Errorf("%s: %w: negative stock", op, domain.ErrInvalidProduct)
	}

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	if err := c.setStock(productID, su); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.persist(ctx)
	return nil
}

func (c *Catalog) setStock(productID string, su domain.StockUpdate) error {
	i := c.indexOf(productID)
	if i < 0 {
		return fmt.Errorf("product %q: %w", productID, ErrNotFound)
	}
	p := c.products[i].Clone()
	j := slices.IndexFunc(p.Variants, func(v domain.ProductVariant) bool {
		return v.ID == su.VariantID
	})
	if j < 0 {
		return fmt.Errorf("variant %q: %w", su.VariantID, ErrNotFound)
	}
	p.Variants[j].Stock = su.Stock
	c.replaceAt(i, p)
	return nil
}

// ReplaceAll swaps the whole catalog, e.g. after a backend sync.
func (c *Catalog) ReplaceAll(ctx context.Context, ps []domain.Product) error {
	const op = "Catalog.ReplaceAll"

	next := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if err := c.validate(p); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		next = append(next, p.Clone())
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = next
	if c.state == StateUninitialized {
		c.state = StateRestored
	}
	c.persist(ctx)
	return nil
}

// Reset clears the persisted snapshot and reseeds from the defaults.
func (c *Catalog) Reset(ctx context.Context) {
	const op = "Catalog.Reset"
	log := slog.With("op", op)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		log.Error("failed to clear snapshot", "err", err)
	}
	c.seed(ctx)
	log.Info("catalog reset to defaults", "nProducts", len(c.products))
}

// HandleCatalogEvents applies backend change events and persists once.
// Events for unknown products or variants are skipped.
func (c *Catalog) HandleCatalogEvents(
	ctx context.Context, evts []domain.CatalogEvent,
) error {
	const op = "Catalog.HandleCatalogEvents"
	log := slog.With("op", op)

	if len(evts) == 0 {
		return nil
	}

	c.lockLoaded(ctx)
	defer c.mu.Unlock()

	var applied int
	for _, evt := range evts {
		if err := c.apply(evt); err != nil {
			log.Warn("skip event", "type", evt.Type, "productID", evt.ProductID, "err", err)
			continue
		}
		applied++
	}

	if applied != 0 {
		c.persist(ctx)
	}
	log.Debug("events applied", "nApplied", applied, "nEvents", len(evts))
	return nil
}

func (c *Catalog) apply(evt domain.CatalogEvent) error {
	switch evt.Type {
	case domain.ProductCreated, domain.ProductUpdated:
		if evt.Product == nil {
			return errors.New("event without product")
		}
		if err := evt.Product.Validate(); err != nil {
			return err
		}
		c.upsert(*evt.Product)
		return nil
	case domain.ProductDeleted:
		if !c.remove(evt.ProductID) {
			return ErrNotFound
		}
		return nil
	case domain.StockChanged:
		return c.setStock(evt.ProductID, domain.StockUpdate{
			VariantID: evt.VariantID, Stock: evt.Stock,
		})
	default:
		return fmt.Errorf("unknown event type %q", evt.Type)
	}
}

func (c *Catalog) validate(p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.PriceConsistent() {
		slog.Warn("base price exceeds original price",
			"op", "Catalog.validate", "productID", p.ID,
			"basePrice", p.BasePrice, "originalPrice", p.OriginalPrice,
		)
	}
	return nil
}
