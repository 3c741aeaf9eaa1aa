package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/publicfix/publicfix/internal/config"
	"github.com/publicfix/publicfix/internal/db"
	"github.com/publicfix/publicfix/internal/logging"
	"github.com/publicfix/publicfix/internal/photostore/local"
	"github.com/publicfix/publicfix/internal/service"
	"github.com/publicfix/publicfix/internal/store"
	"github.com/publicfix/publicfix/internal/web"
	"github.com/publicfix/publicfix/internal/web/templates"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid time zone", "time_zone", cfg.TimeZone, "error", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	err = db.Initialize(ctx, database, db.Options{SeedSampleData: cfg.SeedSampleData, Logger: logger})
	var initErr *db.InitError
	switch {
	case err == nil:
	case errors.As(err, &initErr) && initErr.Stage == db.StageSeed:
		logger.Warn("sample data not inserted, continuing with current contents", "error", err)
	default:
		logger.Error("failed to initialize database", "error", err)
		return
	}

	photoStg, err := local.NewLocalPhotoStore(cfg.PhotoPath)
	if err != nil {
		logger.Error("failed to initialize photo store", "error", err)
		return
	}

	reportService := service.NewReportService(store.NewReportStore(database), photoStg, loc, logger)
	server := web.NewServer(reportService, templates.FS, photoStg, logger)

	if err := server.Run(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}
