package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
)

// CatalogAPI is the backend of record: products in postgres, changes
// published as catalog events.
type CatalogAPI struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      storage.SQLDB
	producer   *kafka.CatalogEventsProducer
	service    service.ProductService
	httpServer httphandler.HTTPServer
}

func NewCatalogAPI(ctx context.Context, cfg config.Config) *CatalogAPI {
	app := &CatalogAPI{ctx: ctx, cfg: cfg}

	initLogger(cfg.LogLevel)
	app.initOutboundAdapters()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *CatalogAPI) initOutboundAdapters() {
	const op = "CatalogAPI.initOutboundAdapters"

	db, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		fallDown(op, err)
	}
	app.sqldb = db

	if !app.cfg.Broker.Enabled() {
		slog.Warn("broker is not configured, catalog events are not published")
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

	producer, err := kafka.NewCatalogEventsProducer(
		kafka.ProducerClientOpt(
			app.ctx, app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CatalogEvents, tlsCfg,
		),
		kafka.ProducerEncoderOpt(serde),
	)
	if err != nil {
		fallDown(op, err)
	}
	app.producer = &producer
}

func (app *CatalogAPI) initCoreService() {
	var producer port.CatalogEventsProducer
	if app.producer != nil {
		producer = app.producer
	}
	app.service = service.NewProductService(
		storage.NewProductsRepository(app.sqldb), producer,
	)
}

func (app *CatalogAPI) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterProducts(mux, app.service)

	handler := httphandler.AllowJSON(mux)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, httphandler.DefaultHandlerTimeout,
	)
}

func (app *CatalogAPI) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *CatalogAPI) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.producer != nil {
		app.producer.Close()
	}
	app.sqldb.Close()

	slog.Info("application is closed")
}
