package main

import (
	"context"
	"fmt"
	"os"

	"cleanlog/internal/amqp"
	"cleanlog/internal/cli"
	"cleanlog/internal/config"
	"cleanlog/internal/log"
	"cleanlog/internal/sheets"
	gsheet "cleanlog/internal/sheets/google"
	memsheet "cleanlog/internal/sheets/memory"
	"cleanlog/internal/storage"
	"cleanlog/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadConfig((*config.Config).ValidateWorker)
	if err != nil {
		cli.Fatal(log.New(log.DefaultConfig()), "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting cleanlog-worker", log.FieldOperation, log.OpStartup)
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully", log.FieldOperation, log.OpShutdown)
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	// activities are read from the database the web process writes
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("initialize SQLite repository at %s: %w", cfg.SQLiteDBPath, err)
	}
	defer repo.Close()

	var appender sheets.ActivityAppender
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			return fmt.Errorf("initialize Google Sheets client: %w", err)
		}
		appender = client
		logger.Info("Google Sheets client initialized",
			log.FieldComponent, log.ComponentSheets,
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.GoogleSheetName)
	} else {
		// keeps the queue drained in development
		appender = memsheet.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, activities are mirrored in memory only",
			log.FieldComponent, log.ComponentSheets)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, appender)

	return cli.Run(ctx, logger, func(ctx context.Context) error {
		return amqpClient.ConsumeActivityRegistered(ctx, syncWorker.HandleActivityRegistered)
	})
}
