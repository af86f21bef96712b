package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ramvolt/ebay-lister/internal/category"
	"github.com/ramvolt/ebay-lister/internal/config"
	"github.com/ramvolt/ebay-lister/internal/ebay"
	"github.com/ramvolt/ebay-lister/internal/server"
	"github.com/ramvolt/ebay-lister/internal/storage"
	"github.com/ramvolt/ebay-lister/internal/vision"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	analyzer, err := newAnalyzer(ctx, cfg.VisionProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize vision analyzer")
	}
	log.Info().Str("provider", cfg.VisionProvider).Msg("vision analyzer initialized")

	catalog := category.Load(cfg.CategoriesPath, cfg.DefaultCategoryID)

	store, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open listing log")
	}
	defer store.Close()
	log.Info().Str("dbPath", cfg.DBPath).Msg("listing log initialized")

	tokens := ebay.NewTokenSource(ebay.TokenSourceOpts{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		AccessToken:  cfg.AccessToken,
	})
	inventory := ebay.NewClient(tokens, ebay.ClientOpts{MarketplaceID: cfg.MarketplaceID})
	trading := ebay.NewTradingClient(tokens, ebay.TradingClientOpts{})

	srv := server.New(analyzer, catalog, inventory, trading, store, cfg)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Int("port", cfg.Port).Bool("forceDrafts", cfg.ForceDrafts).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("shutdown with error")
	} else {
		log.Info().Msg("shutdown complete")
	}
}

func newAnalyzer(ctx context.Context, provider string) (vision.Analyzer, error) {
	switch provider {
	case "openai":
		return vision.NewOpenAIAnalyzer(), nil
	case "gemini":
		return vision.NewGeminiAnalyzer(ctx)
	default:
		return nil, fmt.Errorf("unknown vision provider: %q", provider)
	}
}
