package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/catalogclient"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/kvstore"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/commerce"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
)

type storefrontService struct {
	catalog  *service.Catalog
	session  *service.Session
	payments service.Payments
	admin    service.Admin
}

// Storefront runs one shopping session over the local catalog cache. The
// cache follows the backend through catalog events when a broker is set.
type Storefront struct {
	ctx         context.Context
	cfg         config.Config
	kv          kvstore.KV
	redisClient *redis.Client
	remote      *catalogclient.Client
	consumer    *kafka.CatalogEventsConsumer
	service     storefrontService
	httpServer  httphandler.HTTPServer
}

func NewStorefront(ctx context.Context, cfg config.Config) *Storefront {
	app := &Storefront{ctx: ctx, cfg: cfg}

	initLogger(cfg.LogLevel)
	app.initStore()
	app.initRemote()
	app.initCoreService()
	app.initConsumer()
	app.initInboundAdapters()

	return app
}

func (app *Storefront) initStore() {
	const op = "Storefront.initStore"

	snapshot := app.cfg.Storefront.Snapshot
	switch snapshot.Driver {
	case config.SnapshotDriverRedis:
		cl, err := kvstore.NewRedisClient(app.ctx, snapshot.RedisURL)
		if err != nil {
			fallDown(op, err)
		}
		app.redisClient = cl
		app.kv = kvstore.NewRedisStore(cl)
	case config.SnapshotDriverMemory:
		fs, err := kvstore.NewFileStore(afero.NewMemMapFs(), "/")
		if err != nil {
			fallDown(op, err)
		}
		app.kv = fs
	default:
		fs, err := kvstore.NewFileStore(afero.NewOsFs(), snapshot.Dir)
		if err != nil {
			fallDown(op, err)
		}
		app.kv = fs
	}
}

func (app *Storefront) initRemote() {
	const op = "Storefront.initRemote"

	remote, err := catalogclient.New(
		app.cfg.Storefront.BackendURL,
		catalogclient.TimeoutOpt(app.cfg.Storefront.RequestTimeout),
	)
	if err != nil {
		fallDown(op, err)
	}
	app.remote = remote
}

func (app *Storefront) initCoreService() {
	const op = "Storefront.initCoreService"
	log := slog.With("op", op)

	cat := service.NewCatalog(kvstore.NewCatalogSnapshot(app.kv), catalog.Defaults)
	state := cat.Load(app.ctx)
	log.Info("catalog loaded", "state", state.String(), "products", len(cat.All()))

	policy := commerce.DefaultPolicy()
	if len(app.cfg.Storefront.CODCountries) != 0 {
		policy.CODCountries = app.cfg.Storefront.CODCountries
	}
	if app.cfg.Storefront.DefaultCountry != "" {
		policy.DefaultCountry = app.cfg.Storefront.DefaultCountry
	}
	resolver := commerce.NewResolver(commerce.DefaultCurrencies(), policy)

	session := service.NewSession(
		app.ctx, resolver, kvstore.NewCurrencyPreference(app.kv), app.signals(),
	)

	app.service = storefrontService{
		catalog:  cat,
		session:  session,
		payments: service.NewPayments(session),
		admin:    service.NewAdmin(app.remote, cat),
	}
}

// signals prefers configured values over the process environment.
func (app *Storefront) signals() commerce.Signals {
	s := commerce.Signals{
		Locale:   app.cfg.Storefront.Locale,
		TimeZone: app.cfg.Storefront.TimeZone,
	}
	if s.Locale == "" {
		s.Locale = os.Getenv("LC_ALL")
	}
	if s.Locale == "" {
		s.Locale = os.Getenv("LANG")
	}
	if s.TimeZone == "" {
		s.TimeZone = os.Getenv("TZ")
	}
	return s
}

func (app *Storefront) initConsumer() {
	const op = "Storefront.initConsumer"

	if !app.cfg.Broker.Enabled() {
		slog.Warn("broker is not configured, catalog follows admin calls only")
		return
	}

	tlsCfg, err := brokerTLS(app.cfg)
	if err != nil {
		fallDown(op, err)
	}

	serde, err := newCatalogEventSerde(app.ctx, app.cfg, tlsCfg)
	if err != nil {
		fallDown(op, err)
	}

	consumer, err := kafka.NewCatalogEventsConsumer(
		kafka.ConsumerClientOpt(
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CatalogEvents,
			app.cfg.Broker.Consumers.StorefrontGroup,
			tlsCfg,
		),
		kafka.ConsumerDecoderOpt(serde),
		kafka.ConsumerHandlerOpt(app.service.catalog),
	)
	if err != nil {
		fallDown(op, err)
	}
	app.consumer = &consumer
}

func (app *Storefront) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterStorefront(
		mux,
		app.service.catalog,
		app.service.session,
		app.service.payments,
		app.service.admin,
	)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPTimeout,
	)
}

func (app *Storefront) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	if app.consumer != nil {
		go app.consumer.Run(app.ctx)
	}

	slog.Info("application is running")
}

func (app *Storefront) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.consumer != nil {
		app.consumer.Close()
	}
	if app.redisClient != nil {
		if err := app.redisClient.Close(); err != nil {
			slog.Error("failed to close redis client", "err", err)
		}
	}

	slog.Info("application is closed")
}
