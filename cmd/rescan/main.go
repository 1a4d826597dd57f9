package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"filegate/internal/adapters/eventbroker/nats"
	"filegate/internal/adapters/lock/flock"
	"filegate/internal/adapters/repository/postgres"
	"filegate/internal/adapters/scanner/httpscan"
	"filegate/internal/adapters/storage/fs"
	"filegate/internal/config"
	"filegate/internal/core/port"
	"filegate/internal/core/service/audit"
	"filegate/internal/core/service/rescan"
)

// Batch worker over the quarantine area. Exits 0 even when individual
// uploads fail so schedulers do not retry-storm the scanner.
func main() {

	limit := flag.Int("limit", 0, "max quarantined uploads to process (0 uses RESCAN_LIMIT)")
	dryRun := flag.Bool("dry-run", false, "report what would be rescanned without scanning or publishing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil)).With("component", "rescan")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	if *limit <= 0 {
		*limit = cfg.Rescan.Limit
	}

	db, err := postgres.Connect(cfg.Database)
	if err != nil {
		logger.Error("failed to init database", "error", err)
		return
	}
	defer db.Close()

	store, err := fs.NewStorage(cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to init storage", "error", err)
		return
	}

	locks, err := flock.NewManager(cfg.Storage.Root)
	if err != nil {
		logger.Error("failed to init lock manager", "error", err)
		return
	}

	scanClient := httpscan.NewClient(cfg.Scanner, logger)

	sinks := []port.EventSink{postgres.NewSQLUploadEventRepository(db)}
	if cfg.NATS.Enabled {
		publisher, natsErr := nats.NewPublisher(ctx, cfg.NATS, logger)
		if natsErr != nil {
			logger.Error("failed to init nats publisher", "error", natsErr)
			return
		}
		defer publisher.Close()
		sinks = append(sinks, publisher)
	}
	emitter := audit.NewEmitter(logger, sinks...)

	service := rescan.NewRescanService(store, store, locks, scanClient, emitter, logger)

	stats, err := service.Run(ctx, *limit, *dryRun)
	if err != nil {
		logger.Error("rescan pass aborted", "error", err)
		return
	}

	logger.Info("rescan pass complete",
		"processed", stats.Processed,
		"published", stats.Published,
		"dry_run", *dryRun,
	)
}
