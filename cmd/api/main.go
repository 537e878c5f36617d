package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"furnistore/internal/cart"
	"furnistore/internal/catalog"
	"furnistore/internal/checkout"
	"furnistore/internal/config"
	"furnistore/internal/database"
	"furnistore/internal/handler"
	"furnistore/internal/middleware"
	"furnistore/internal/router"
	"furnistore/internal/service"
	"furnistore/internal/session"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	logger.Info().
		Str("catalog_source", cfg.Catalog.Source).
		Msg("starting furnistore API server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	products, closeCatalog, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeCatalog()

	store := cart.NewStore(logger)

	productService := service.NewProductService(products, logger)
	cartService := service.NewCartService(store, products, cfg.Cart.AddDelay, logger)
	checkoutService := service.NewCheckoutService(store, logger, checkout.WithClearDelay(cfg.Cart.ClearDelay))

	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)

	var verifier middleware.TokenVerifier
	if cfg.Auth.SessionSecret != "" {
		verifier = session.NewTokenService(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	} else {
		logger.Info().Msg("SESSION_SECRET not set, all shoppers are anonymous")
	}

	mux := router.New(productHandler, cartHandler, checkoutHandler, cfg.Auth.APIKey, verifier, logger)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// openCatalog builds the product catalog for the configured source. The
// returned func releases whatever the catalog holds open.
func openCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (catalog.Catalog, func(), error) {
	noop := func() {}

	switch cfg.Catalog.Source {
	case config.CatalogSourcePostgres:
		pool, err := database.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, noop, err
		}
		return catalog.NewPostgresCatalog(pool, logger), pool.Close, nil

	case config.CatalogSourceS3:
		fileLoader := catalog.NewFileLoader(logger)
		var loader catalog.Loader

		s3Loader, err := catalog.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			loader = catalog.NewFallbackLoader(nil, fileLoader, cfg.S3.Prefix, logger)
		} else {
			loader = catalog.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, logger)
		}

		c, err := catalog.LoadMemoryCatalog(ctx, loader, cfg.Catalog.File, logger)
		return c, noop, err

	default:
		c, err := catalog.LoadMemoryCatalog(ctx, catalog.NewFileLoader(logger), cfg.Catalog.File, logger)
		return c, noop, err
	}
}
