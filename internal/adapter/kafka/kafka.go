package kafka

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

func commonOpts(seedBrokers []string, tlsCfg *tls.Config) []kgo.Opt {
	opts := []kgo.Opt{kgo.SeedBrokers(seedBrokers...)}
	if tlsCfg != nil {
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}
	return opts
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func eventToSchemaV1(evt domain.CatalogEvent) schema.CatalogEventV1 {
	s := schema.CatalogEventV1{
		Type:       string(evt.Type),
		ProductID:  evt.ProductID,
		VariantID:  evt.VariantID,
		Stock:      int64(evt.Stock),
		OccurredAt: evt.OccurredAt.UnixMilli(),
	}
	if evt.Product != nil {
		p := productToSchemaV1(*evt.Product)
		s.Product = &p
	}
	return s
}

func productToSchemaV1(p domain.Product) (s schema.ProductV1) {
	s.ID = p.ID
	s.Name = p.Name
	s.Description = p.Description
	s.Category = string(p.Category)
	s.Subcategory = p.Subcategory
	s.Images = p.Images
	s.BasePrice = p.BasePrice
	s.OriginalPrice = p.OriginalPrice
	s.Rating = p.Rating
	s.Reviews = int64(p.Reviews)
	s.Tags = p.Tags
	s.Badges = p.Badges
	s.ShippingDays = int64(p.ShippingDays)
	s.CODAvailable = p.CODAvailable
	s.IsTrending = p.IsTrending
	s.IsExclusive = p.IsExclusive
	s.Brand = p.Brand
	s.Materials = p.Materials
	s.Features = p.Features
	s.SizeGuide = string(p.SizeGuide)
	s.CreatedAt = p.CreatedAt
	s.UpdatedAt = p.UpdatedAt

	if p.StockAlert != nil {
		v := int64(*p.StockAlert)
		s.StockAlert = &v
	}

	s.Variants = make([]schema.ProductVariantV1, len(p.Variants))
	for i, v := range p.Variants {
		s.Variants[i] = schema.ProductVariantV1{
			ID:            v.ID,
			Size:          v.Size,
			Color:         v.Color,
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			Stock:         int64(v.Stock),
			SKU:           v.SKU,
		}
	}
	return s
}

func schemaV1ToEvent(s schema.CatalogEventV1) domain.CatalogEvent {
	evt := domain.CatalogEvent{
		Type:       domain.CatalogEventType(s.Type),
		ProductID:  s.ProductID,
		VariantID:  s.VariantID,
		Stock:      int(s.Stock),
		OccurredAt: time.UnixMilli(s.OccurredAt).UTC(),
	}
	if s.Product != nil {
		p := schemaV1ToProduct(*s.Product)
		evt.Product = &p
	}
	return evt
}

func schemaV1ToProduct(s schema.ProductV1) (p domain.Product) {
	p.ID = s.ID
	p.Name = s.Name
	p.Description = s.Description
	p.Category = domain.Category(s.Category)
	p.Subcategory = s.Subcategory
	p.Images = s.Images
	p.BasePrice = s.BasePrice
	p.OriginalPrice = s.OriginalPrice
	p.Rating = s.Rating
	p.Reviews = int(s.Reviews)
	p.Tags = s.Tags
	p.Badges = s.Badges
	p.ShippingDays = int(s.ShippingDays)
	p.CODAvailable = s.CODAvailable
	p.IsTrending = s.IsTrending
	p.IsExclusive = s.IsExclusive
	p.Brand = s.Brand
	p.Materials = nilIfEmpty(s.Materials)
	p.Features = nilIfEmpty(s.Features)
	p.CreatedAt = s.CreatedAt
	p.UpdatedAt = s.UpdatedAt

	if s.SizeGuide != "" && json.Valid([]byte(s.SizeGuide)) {
		p.SizeGuide = json.RawMessage(s.SizeGuide)
	}
	if s.StockAlert != nil {
		v := int(*s.StockAlert)
		p.StockAlert = &v
	}

	p.Variants = make([]domain.ProductVariant, len(s.Variants))
	for i, v := range s.Variants {
		p.Variants[i] = domain.ProductVariant{
			ID:            v.ID,
			Size:          v.Size,
			Color:         v.Color,
			Price:         v.Price,
			OriginalPrice: v.OriginalPrice,
			Stock:         int(v.Stock),
			SKU:           v.SKU,
		}
	}
	return p
}

// nilIfEmpty keeps optional lists absent after a round trip, since avro
// arrays cannot be null.
func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
