// Package main is the entry point for the persona API server.
//
// The server powers a persona chat demo: it fetches a handle's recent public
// posts, distills a personality profile from them with a generative model, and
// relays chat turns in that persona's voice with live crypto prices mixed in
// when the message mentions tickers. Every upstream dependency is optional at
// runtime - a missing credential degrades the matching component to its
// static fallback instead of failing startup.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/doppai/persona-api/internal/blobstore"
	"github.com/doppai/persona-api/internal/clientdata"
	"github.com/doppai/persona-api/internal/clients/coingecko"
	"github.com/doppai/persona-api/internal/clients/gemini"
	"github.com/doppai/persona-api/internal/clients/twitter"
	"github.com/doppai/persona-api/internal/config"
	"github.com/doppai/persona-api/internal/database"
	"github.com/doppai/persona-api/internal/modules/chat"
	chathandlers "github.com/doppai/persona-api/internal/modules/chat/handlers"
	"github.com/doppai/persona-api/internal/modules/posts"
	postshandlers "github.com/doppai/persona-api/internal/modules/posts/handlers"
	"github.com/doppai/persona-api/internal/modules/profile"
	profilehandlers "github.com/doppai/persona-api/internal/modules/profile/handlers"
	"github.com/doppai/persona-api/internal/postcache"
	"github.com/doppai/persona-api/internal/server"
	"github.com/doppai/persona-api/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("cache_backend", cfg.CacheBackend).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting persona API")

	ctx := context.Background()

	// Cache blob backend for the single-slot post cache
	store, err := buildBlobStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize cache backend")
	}
	postCache := postcache.New(store, log)

	// Client data database caches CoinGecko responses between requests
	clientDataDB, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "client_data.db"),
		Name: "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open client data database")
	}
	defer clientDataDB.Close()

	if err := clientDataDB.Migrate(clientdata.Schema); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate client data database")
	}
	cacheRepo := clientdata.NewRepository(clientDataDB.Conn())

	// Upstream clients. Each one is optional: the services degrade to their
	// fallbacks when a client is missing.
	var fetcher posts.Fetcher
	if cfg.TwitterBearerToken != "" {
		fetcher = twitter.NewClient(cfg.TwitterBaseURL, cfg.TwitterBearerToken, log)
	} else {
		log.Warn().Msg("No Twitter bearer token configured, post fetching disabled")
	}

	var generator *gemini.Client
	if cfg.GeminiAPIKey != "" {
		generator, err = gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, log)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Gemini client, generation disabled")
			generator = nil
		}
	} else {
		log.Warn().Msg("No Gemini API key configured, generation disabled")
	}

	coingeckoClient := coingecko.NewClient(cfg.CoinGeckoBaseURL, cacheRepo, log)

	// Services
	postsService := posts.NewService(fetcher, postCache, cfg.DefaultHandle, cfg.PlaceholderOnFailure, log)

	var profileGen profile.TextGenerator
	var chatGen chat.TextGenerator
	if generator != nil {
		profileGen = generator
		chatGen = generator
	}
	profileService := profile.NewService(profileGen, log)
	chatService := chat.NewService(chatGen, coingeckoClient, nil, log)

	srv := server.New(server.Config{
		Log:            log,
		Config:         cfg,
		PostsHandler:   postshandlers.NewHandler(postsService, log),
		ProfileHandler: profilehandlers.NewHandler(profileService, log),
		ChatHandler:    chathandlers.NewHandler(chatService, log),
		ComponentStatus: server.ComponentStatus{
			PostFetcher:      fetcher != nil,
			ProfileGenerator: generator != nil,
			PriceLookup:      true,
			CacheBackend:     cfg.CacheBackend,
		},
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// buildBlobStore selects the cache blob backend from configuration. The file
// backend is the default; S3-compatible storage is for deployments where the
// local disk is ephemeral.
func buildBlobStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (blobstore.Store, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendS3:
		return blobstore.NewS3Store(ctx, blobstore.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Key:             "cached-posts.json",
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, log)
	case config.CacheBackendMemory:
		return blobstore.NewMemoryStore(), nil
	default:
		return blobstore.NewFileStore(filepath.Join(cfg.DataDir, "cached-posts.json"))
	}
}
