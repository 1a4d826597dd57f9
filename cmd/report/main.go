package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"filegate/internal/adapters/repository/postgres"
	"filegate/internal/config"
	"filegate/internal/core/service/report"
)

func main() {

	out := flag.String("out", "", "write the report to this file instead of stdout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("component", "report")

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
	defer db.Close()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, createErr := os.Create(*out)
		if createErr != nil {
			logger.Error("failed to create report file", "path", *out, "error", createErr)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	service := report.NewReportService(postgres.NewSQLUploadEventRepository(db), logger)
	if err := service.Generate(ctx, w); err != nil {
		logger.Error("failed to generate report", "error", err)
		os.Exit(1)
	}
}
