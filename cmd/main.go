/*
Package main is the entry point for the minichat server.

It is responsible for loading configuration, initializing the global logging
system, wiring the credential store to its persistence backend, starting the
WebSocket Hub, and gracefully handling operating system interrupt signals
(SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minichat/internal/app/chat"
	"minichat/internal/app/store"
	"minichat/internal/configs"
	"minichat/internal/handler"
	"minichat/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("storage_backend", cfg.StorageBackend).
		Bool("echo_sender", cfg.EchoSender).
		Bool("chat_only", cfg.ChatOnly).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the persistence backend and load the credential store
	persister, err := newPersister(cfg)
	if err != nil {
		logx.Fatal(err, "Failed to initialize persistence backend")
	}
	credentials := store.NewStore(persister)

	// Start the Hub with the configured broadcast policy
	filter := chat.ForwardAll
	if cfg.ChatOnly {
		filter = chat.ChatOnly
	}
	hub := chat.NewHub(filter, cfg.EchoSender)

	// Setup HTTP server and routes
	router := handler.Router(&handler.AppDeps{
		Hub:    hub,
		Store:  credentials,
		Config: cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("minichat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}

// newPersister builds the Persister selected by STORAGE_BACKEND.
func newPersister(cfg *configs.AppConfig) (store.Persister, error) {
	switch cfg.StorageBackend {
	case configs.StorageS3:
		return store.NewS3Persister(store.S3Config{
			BucketName:      cfg.S3BucketName,
			ObjectKey:       cfg.S3ObjectKey,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})

	case configs.StorageMemory:
		return store.MemoryPersister{}, nil

	default:
		return store.NewFilePersister(cfg.DataFile), nil
	}
}
