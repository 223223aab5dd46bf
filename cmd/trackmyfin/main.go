package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"trackmyfin/internal/amqp"
	"trackmyfin/internal/cache"
	"trackmyfin/internal/config"
	"trackmyfin/internal/dataset"
	"trackmyfin/internal/export"
	"trackmyfin/internal/export/pdf"
	"trackmyfin/internal/export/plain"
	"trackmyfin/internal/export/xlsx"
	apphttp "trackmyfin/internal/http"
	applog "trackmyfin/internal/log"
	"trackmyfin/internal/remote"
	"trackmyfin/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	session := remote.Session{Token: cfg.APIToken}
	client := remote.NewClient(cfg.APIBaseURL, session)

	warm := cache.NewTTLCache[remote.Dataset](cfg.CacheSize, cfg.CacheTTL)
	janitor := cache.NewJanitor()
	janitor.Register(warm)
	janitor.Start(cfg.SweepInterval)
	defer janitor.Stop()

	data := dataset.NewService(session.Owner(), client, store, warm, logger)

	exporter := export.NewExporter(cfg.CurrencySymbol, map[string]export.Renderer{
		export.FormatXLSX: xlsx.New(),
		export.FormatPDF:  pdf.New(),
		export.FormatCSV:  plain.New(),
	}, plain.New())

	// AMQP is optional; without it the async export path returns 503.
	var publisher apphttp.JobPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - async exports unavailable")
	}

	srv := apphttp.NewServer(":"+cfg.Port, data, exporter, publisher, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting trackmyfin server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
