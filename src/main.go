package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"yamubot/src/features/auth"
	"yamubot/src/features/config"
	"yamubot/src/features/hosting"
	"yamubot/src/features/likes"
	"yamubot/src/features/logging"
	"yamubot/src/features/lyrics"
	"yamubot/src/features/playlists"
	"yamubot/src/features/search"
	"yamubot/src/features/stats"
	"yamubot/src/infra/database"
	"yamubot/src/infra/yandex"
)

func main() {
	// Secrets may come from a local .env file
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	// Load configuration
	cfgManager, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Hot-reload the config file on change
	watcher, err := config.NewWatcher(cfgManager, "config.yaml")
	if err != nil {
		slog.Warn("Config watcher unavailable", "error", err)
	} else if err := watcher.Start(); err != nil {
		slog.Warn("Config watcher failed to start", "error", err)
	} else {
		defer watcher.Stop()
	}

	// Create the token store
	tokenStore, err := database.NewSqliteTokenStore(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to create token store: %v", err)
	}
	defer tokenStore.Close()

	// Create the upstream client cache
	yandexCfg := cfgManager.Get().Yandex
	httpClient := &http.Client{Timeout: time.Duration(yandexCfg.TimeoutSeconds) * time.Second}
	clientCache := yandex.NewCache(httpClient, yandexCfg.BaseURL, tokenStore)

	// Create the feature services
	authService := auth.NewService(tokenStore, clientCache, cfgManager)
	searchService := search.NewService(clientCache, cfgManager)
	likesService := likes.NewService(clientCache, searchService)
	lyricsService := lyrics.NewService(clientCache)
	playlistsService := playlists.NewService(clientCache, searchService)

	enricher := stats.NewEnricher()
	aggregator := stats.NewAggregator(
		stats.NewHistoryCollector(enricher),
		stats.NewLibraryCollector(enricher),
	)
	statsService := stats.NewService(clientCache, aggregator, cfgManager)

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		var err error
		telegramBot, err = hosting.NewTelegramBot(cfgManager, authService, statsService, searchService, likesService, lyricsService, playlistsService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, authService)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down...")

	// Shutdown the Telegram bot
	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	// Shutdown the server
	if err := server.Shutdown(); err != nil {
		log.Fatalf("failed to shutdown server: %v", err)
	}
	slog.Info("Server gracefully shut down.")
}
