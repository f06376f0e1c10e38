package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/proexplore/config"
	"github.com/niksmo/proexplore/internal/adapter"
	"github.com/niksmo/proexplore/internal/adapter/catalogapi"
	"github.com/niksmo/proexplore/internal/adapter/httphandler"
	"github.com/niksmo/proexplore/internal/adapter/kafka"
	"github.com/niksmo/proexplore/internal/adapter/storage"
	"github.com/niksmo/proexplore/internal/core/favorites"
	"github.com/niksmo/proexplore/internal/core/port"
	"github.com/niksmo/proexplore/internal/core/service"
	"github.com/niksmo/proexplore/pkg/schema"
)

type outbound struct {
	catalog   port.CatalogClient
	kvStorage port.KVStorage
	redis     *storage.RedisKVStorage
	sqlDB     *storage.SQLDB
	producer  *kafka.FavoritesProducer
	unobserve func()
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	outbound   outbound
	favorites  *favorites.Store
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initFavoritesStorage()
	app.initFavorites()
	app.initFavoriteEvents()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"
	cfg := app.cfg.Catalog

	opts := []catalogapi.ClientOpt{catalogapi.TimeoutOpt(cfg.Timeout)}
	if cfg.CAFile != "" {
		tlsConfig, err := adapter.MakeTLSConfig(cfg.CAFile, "", "")
		if err != nil {
			app.fallDown(op, err)
		}
		opts = append(opts, catalogapi.TLSConfigOpt(tlsConfig))
	}

	client, err := catalogapi.NewClient(cfg.BaseURL, opts...)
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.catalog = client
}

func (app *App) initFavoritesStorage() {
	const op = "App.initFavoritesStorage"
	cfg := app.cfg.Favorites

	switch cfg.Backend {
	case config.BackendMemory:
		app.outbound.kvStorage = storage.NewMemoryKVStorage()

	case config.BackendFile:
		s, err := storage.NewFileKVStorage(cfg.FilePath)
		if err != nil {
			app.fallDown(op, err)
		}
		app.outbound.kvStorage = s

	case config.BackendRedis:
		s, err := storage.NewRedisKVStorage(app.ctx, storage.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.outbound.redis = &s
		app.outbound.kvStorage = s

	case config.BackendPostgres:
		db, err := storage.NewSQLDB(app.ctx, cfg.PostgresDSN)
		if err != nil {
			app.fallDown(op, err)
		}
		app.outbound.sqlDB = &db
		app.outbound.kvStorage = storage.NewSQLKVStorage(db)

	default:
		app.fallDown(op, fmt.Errorf("unknown favorites backend %q", cfg.Backend))
	}

	slog.Info("favorites storage is ready", "backend", cfg.Backend)
}

func (app *App) initFavorites() {
	app.favorites = favorites.NewStore(
		app.outbound.kvStorage,
		favorites.KeyOpt(app.cfg.Favorites.Key),
	)
}

func (app *App) initFavoriteEvents() {
	const op = "App.initFavoriteEvents"
	cfg := app.cfg.Broker

	if !cfg.Enabled() {
		slog.Info("favorite events are disabled")
		return
	}

	identifier, err := schema.NewRegistryIdentifier(cfg.SchemaRegistryURLs)
	if err != nil {
		app.fallDown(op, err)
	}

	topic := cfg.Topics.FavoriteEvents
	eventSerde, err := schema.NewSerdeFavoriteEventV1(
		app.ctx,
		schema.SubjectOpt(topic+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	producer, err := kafka.NewFavoritesProducer(
		kafka.ProducerClientOpt(app.ctx, cfg.SeedBrokers, topic),
		kafka.ProducerEncoderOpt(eventSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.outbound.producer = &producer
	app.outbound.unobserve = app.favorites.Subscribe(producer.Observe)
	slog.Info("favorite events are enabled", "topic", topic)
}

func (app *App) initCoreService() {
	app.service = service.New(app.outbound.catalog, app.favorites)
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.RegisterViews(mux, app.service, app.service, app.service)
	httphandler.RegisterAPI(mux, app.service, app.service, app.service)
	httphandler.RegisterHealth(mux)

	handler := httphandler.RequestID(httphandler.LogRequests(mux))
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.HTTPHandlerTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()

	if app.outbound.producer != nil {
		app.outbound.unobserve()
		app.outbound.producer.Close(ctx)
	}
	if app.outbound.redis != nil {
		app.outbound.redis.Close()
	}
	if app.outbound.sqlDB != nil {
		app.outbound.sqlDB.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
