package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"

	"pokesearch/internal/config"
	"pokesearch/internal/graphql"
	"pokesearch/internal/jobs"
	"pokesearch/internal/metrics"
	"pokesearch/internal/pokeapi"
	"pokesearch/internal/query"
	"pokesearch/internal/render"
	"pokesearch/internal/search"
	"pokesearch/internal/server"
	"pokesearch/internal/storage"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	cfg.Apply(yamlCfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StorageDriver,
		RedisURL:    cfg.RedisURL,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		log.Fatalf("Failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	defer store.Close()
	log.Printf("Using %s storage", cfg.StorageDriver)

	// Remote source and lookup cache
	gql := graphql.New(cfg.GraphQLEndpoint, cfg.GraphQLTimeout)
	source := pokeapi.New(gql)
	log.Printf("Using GraphQL endpoint %s", gql.Endpoint())

	opts := query.Options{
		TTL:     cfg.CacheTTL,
		Observe: metrics.RecordLookup,
	}
	if cfg.StorageDriver != "" && cfg.StorageDriver != storage.DriverMemory {
		opts.Backend = store
	}
	lookups := query.NewClient(source, opts)

	metrics.Init(lookups)

	renderer := render.New(render.DefaultPalette().Merge(cfg.TypeStyles()))
	svc := search.NewService(lookups, store, renderer)

	// Background jobs
	var upstream *jobs.UpstreamChecker
	if cfg.HealthCheckInterval > 0 {
		upstream = jobs.NewUpstreamChecker(source, cfg.HealthCheckInterval)
		go upstream.Start(ctx)
	}
	if expirer, ok := store.(jobs.Expirer); ok && cfg.PurgeInterval > 0 {
		go jobs.NewExpiryPurger(expirer, cfg.PurgeInterval).Start(ctx)
	}

	// Sessions share the store when it speaks the Fiber storage interface
	var sessions fiber.Storage
	if s, ok := store.(fiber.Storage); ok {
		sessions = s
	}

	srv := server.New(cfg, sessions)
	srv.RegisterRoutes(server.Deps{
		Service:  svc,
		Lookups:  lookups,
		Store:    store,
		Upstream: upstream,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
