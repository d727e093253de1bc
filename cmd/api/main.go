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

	"banner-editor/internal/adapter/repo"
	"banner-editor/internal/aiclient"
	"banner-editor/internal/billing"
	"banner-editor/internal/http/handlers"
	"banner-editor/internal/http/httpapi"
	"banner-editor/internal/infra"
	"banner-editor/internal/infra/credentials"
	"banner-editor/internal/infra/geoip"
	"banner-editor/internal/middleware"
	"banner-editor/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	store, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init asset storage")
	}

	// Tokens fall back to the database when the env vars are empty.
	creds := credentials.NewStore(dbpool)
	aiKey := resolveToken(ctx, logger, creds, credentials.ProviderAI, cfg.AIAPIKey)
	billingKey := resolveToken(ctx, logger, creds, credentials.ProviderBilling, cfg.BillingAPIKey)

	app := handlers.NewApp(logger, cfg)
	app.AI = aiclient.NewClient(aiclient.Options{BaseURL: cfg.AIBaseURL, APIKey: aiKey})
	app.Billing = billing.NewClient(billing.Options{BaseURL: cfg.BillingBaseURL, APIKey: billingKey})
	app.Store = store
	app.Analytics = repo.NewAnalyticsRepository(dbpool)
	app.Regions = repo.NewRegionSetRepository(dbpool)
	app.Banners = repo.NewBannerRepository(dbpool)

	var lookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	} else if resolver != nil {
		lookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, logger, cfg, lookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

func resolveToken(ctx context.Context, logger infra.Logger, creds *credentials.Store, provider, envValue string) string {
	if envValue != "" {
		return envValue
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	token, err := creds.Token(lookupCtx, provider)
	if err != nil {
		logger.Warn().Err(err).Str("provider", provider).Msg("credential lookup failed")
		return ""
	}
	return token
}
