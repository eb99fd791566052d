package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"portfolioStatsBot/internal/config"
	"portfolioStatsBot/internal/logging"
	"portfolioStatsBot/internal/server"
	"portfolioStatsBot/internal/storage"
	"portfolioStatsBot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Ensure parent directory for the DB exists
	if err := storage.EnsureParentDir(cfg.DBPath); err != nil {
		logger.Error("db: cannot create data directory", zap.Error(err))
	}
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		logger.Fatal("db: open failed", zap.Error(err))
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		logger.Fatal("db: schema failed", zap.Error(err))
	}
	logger.Info("db: schema ensured (usage_events table)", zap.String("path", cfg.DBPath))

	tg, err := telegram.NewBot(cfg, db)
	if err != nil {
		logger.Fatal("telegram: init failed", zap.Error(err))
	}
	logger.Info("telegram: bot initialized", zap.String("benchmark", cfg.Benchmark))

	mux := server.NewHTTPMux(tg.WebhookHandler) // registers /telegram/webhook
	addr := ":" + cfg.Port
	logger.Info("http: listening", zap.String("addr", addr))
	if err := server.ListenAndServe(ctx, addr, mux); err != nil {
		logger.Error("http: server error", zap.Error(err))
		os.Exit(1)
	}
}
