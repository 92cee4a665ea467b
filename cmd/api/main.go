package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/pricepal-backend/api/routes"
	"github.com/angelmondragon/pricepal-backend/internal/cart"
	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/internal/search"
	"github.com/angelmondragon/pricepal-backend/internal/shoppinglist"
	"github.com/angelmondragon/pricepal-backend/pkg/config"
	"github.com/angelmondragon/pricepal-backend/pkg/db"
	"github.com/angelmondragon/pricepal-backend/pkg/logger"
	"github.com/angelmondragon/pricepal-backend/pkg/metrics"
	"github.com/angelmondragon/pricepal-backend/pkg/migrate"
	"github.com/angelmondragon/pricepal-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, db.Options{UseSQLite: cfg.FeatureFlags.UseSQLite}, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	searchMetrics := metrics.NewSearchMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	analyzer := search.NewAnalyzer()
	index := search.NewStoreIndex(catalogRepo)
	assembler := search.NewAssembler(catalogRepo)
	fuzzy := search.FuzzyOptions{MaxEdits: cfg.Search.MaxEdits, PrefixLength: cfg.Search.PrefixLength}

	searchService, err := search.NewService(search.ServiceParams{
		Normalizer: search.NewNormalizer(analyzer),
		Matcher: search.NewMatcher(index, search.MatcherConfig{
			Fuzzy:          fuzzy,
			MinScore:       cfg.Search.MinScore,
			CandidateLimit: cfg.Search.CandidateLimit,
		}),
		Assembler:   assembler,
		Products:    catalogRepo,
		Cache:       redisClient,
		CacheTTL:    cfg.Search.CacheTTL,
		CallTimeout: cfg.Search.CallTimeout,
		Metrics:     searchMetrics,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create search service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, catalogRepo)
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		os.Exit(1)
	}

	shoppingListService, err := shoppinglist.NewService(shoppinglist.ServiceParams{
		Analyzer:       analyzer,
		Index:          index,
		Enricher:       assembler,
		Carts:          cartService,
		Fuzzy:          fuzzy,
		CandidateLimit: cfg.Search.CandidateLimit,
		CallTimeout:    cfg.Search.CallTimeout,
		Concurrency:    cfg.Search.ListConcurrency,
		Metrics:        searchMetrics,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create shopping list service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:           dbClient,
			Redis:        redisClient,
			Gatherer:     registry,
			Search:       searchService,
			ShoppingList: shoppingListService,
			Cart:         cartService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
