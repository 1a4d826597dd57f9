package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"filegate/internal/adapters/eventbroker/nats"
	"filegate/internal/adapters/handlers/http/chi"
	uploadhandler "filegate/internal/adapters/handlers/http/chi/v1/upload"
	"filegate/internal/adapters/lock/flock"
	"filegate/internal/adapters/repository/postgres"
	"filegate/internal/adapters/scanner/httpscan"
	"filegate/internal/adapters/storage/fs"
	"filegate/internal/config"
	"filegate/internal/core/port"
	"filegate/internal/core/service/audit"
	"filegate/internal/core/service/upload"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		os.Exit(1)
	}
	defer func(db *sql.DB) {
		err := db.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
			os.Exit(1)
		}
	}(db)
	logger.Info("db connection established")

	//storage
	store, err := fs.NewStorage(cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		os.Exit(1)
	}

	locks, err := flock.NewManager(cfg.Storage.Root)
	if err != nil {
		logger.Error("failed to init lock manager", "error", err)
		os.Exit(1)
	}

	scanClient := httpscan.NewClient(cfg.Scanner, logger)

	//audit sinks
	eventRepo := postgres.NewSQLUploadEventRepository(db)
	sinks := []port.EventSink{eventRepo}

	if cfg.NATS.Enabled {
		publisher, natsErr := nats.NewPublisher(ctx, cfg.NATS, logger)
		if natsErr != nil {
			logger.Error("failed to init nats publisher", "error", natsErr)
			os.Exit(1)
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}

	emitter := audit.NewEmitter(logger, sinks...)

	uploadService := upload.NewUploadService(store, store, store, locks, scanClient, emitter, cfg.Upload, logger)

	//http
	uploadHandler := uploadhandler.NewUploadHandlerV1(uploadService, logger)

	router := chi.NewRouter(logger, uploadHandler, cfg.Env.Env)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}
