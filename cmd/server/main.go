// Command server runs the recipe assistant HTTP API.
//
// Startup order: environment (.env optional) → config → logging → tracing →
// database → provider clients → router → HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/plateful/go-recipe-backend/internal/config"
	httpapi "github.com/plateful/go-recipe-backend/internal/http"
	"github.com/plateful/go-recipe-backend/internal/observability"
	"github.com/plateful/go-recipe-backend/internal/provider"
	"github.com/plateful/go-recipe-backend/internal/store"
	"github.com/plateful/go-recipe-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// .env is a dev convenience; absence is not an error.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	cfg := config.MustLoad()

	// Logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	// Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Database (session store)
	db, err := store.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := store.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	// Provider clients
	var openaiOpts []provider.OpenAIOption
	if cfg.Provider.OpenAIBaseURL != "" {
		openaiOpts = append(openaiOpts, provider.WithBaseURL(cfg.Provider.OpenAIBaseURL))
	}
	if cfg.Provider.OpenAIOrg != "" {
		openaiOpts = append(openaiOpts, provider.WithOrganization(cfg.Provider.OpenAIOrg))
	}
	openai := provider.NewOpenAIClient(cfg.Provider.OpenAIAPIKey, openaiOpts...)

	mux := &provider.Mux{Default: openai}
	if cfg.Provider.GeminiAPIKey != "" {
		gemini, err := provider.NewGeminiClient(ctx, cfg.Provider.GeminiAPIKey)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client failed")
		}
		defer gemini.Close()
		mux.Gemini = gemini
	}
	invoker := provider.NewFallback(mux)

	imageOpts := []provider.ImageOption{
		provider.WithPolling(cfg.Generation.ImagePollEvery, cfg.Generation.ImagePollWait),
	}
	if cfg.Provider.OpenAIBaseURL != "" {
		imageOpts = append(imageOpts, provider.WithImageBaseURL(cfg.Provider.OpenAIBaseURL))
	}
	images := provider.NewImageClient(cfg.Provider.OpenAIAPIKey, imageOpts...)

	// Router
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, invoker, images, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
