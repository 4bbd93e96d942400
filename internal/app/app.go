package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"vectorchat/internal/api"
	"vectorchat/internal/config"
	"vectorchat/internal/directory"
	"vectorchat/internal/embedding"
	"vectorchat/internal/fanout"
	"vectorchat/internal/llm"
	"vectorchat/internal/session"
	"vectorchat/internal/store"
)

const shutdownTimeout = 15 * time.Second

func Run() int {
	cfg, err := config.Load()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	db, err := store.InitDB(cfg.DatabasePath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		// The record store is a best-effort fan-out target, so an
		// unreachable Redis degrades persistence instead of blocking startup.
		slog.Warn("Redis is not reachable; turn records will be dropped until it recovers", "addr", cfg.RedisAddr, "error", err)
	} else {
		slog.Info("Successfully connected to Redis.")
	}

	embedder := embedding.New(cfg.EmbeddingDim)
	records := store.NewRedisRecordStore(rdb)
	index := store.NewSQLiteVectorIndex(db)
	dispatcher := fanout.NewDispatcher(records, index, embedder, 30*time.Second)

	factory := llm.NewHTTPFactory(cfg.EngineURL, cfg.EngineAPIKey)
	processTimeout := time.Duration(cfg.ProcessTimeoutSeconds) * time.Second
	registry := session.NewRegistry(factory, dispatcher, cfg.DefaultModel, processTimeout)

	dir := directory.NewService(db)

	chatHandler := api.NewChatHandler(registry, dir)
	dirHandler := api.NewDirectoryHandler(dir)
	searchHandler := api.NewSearchHandler(index, records, embedder)
	auth := api.AuthMiddleware(cfg.APIKey, cfg.JWTSecret)
	router := api.NewRouter(chatHandler, dirHandler, searchHandler, auth)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "port", cfg.AppPort)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			return 1
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}

		// Scheduled fan-out writes are tracked; give them a chance to land
		// before the process exits.
		if err := dispatcher.Drain(ctx); err != nil {
			slog.Warn("Fan-out drain did not finish before shutdown deadline", "error", err)
		}
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
