package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

func initLogger(level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func brokerTLS(cfg config.Config) (*tls.Config, error) {
	return adapter.MakeTLSConfig(cfg.Broker.TLS)
}

// newCatalogEventSerde registers the catalog event schema under the topic
// subject and returns its serde.
func newCatalogEventSerde(
	ctx context.Context, cfg config.Config, tlsCfg *tls.Config,
) (schema.Serde, error) {
	const op = "app.newCatalogEventSerde"

	srOpts := []sr.ClientOpt{sr.URLs(cfg.Broker.SchemaRegistryURLs...)}
	if tlsCfg != nil {
		srOpts = append(srOpts, sr.HTTPClient(&http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsCfg},
		}))
	}

	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s, err := schema.NewSerdeCatalogEventV1(
		ctx,
		schema.SubjectOpt(schema.TopicSubject(cfg.Broker.Topics.CatalogEvents)),
		schema.SchemaIdentifierOpt(schema.NewSchemaCreater(srClient)),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
