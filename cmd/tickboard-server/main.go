package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tickboard/internal/board"
	"tickboard/internal/config"
	"tickboard/internal/httpapi"
	"tickboard/internal/market"
	"tickboard/internal/store"
	"tickboard/internal/util"
)

func main() {
	// Optional .env file for the API token and friends.
	_ = godotenv.Load()

	cfgPath := "config/tickboard.yaml"
	if p := os.Getenv("TICKBOARD_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	settings, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		logger.Error("opening settings store", "path", cfg.Storage.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer settings.Close()

	var (
		recorder board.HistoryRecorder
		reader   httpapi.HistoryReader
	)
	if cfg.Board.RecordHistory {
		ps := store.NewParquetStore(cfg.Storage.DataDir)
		recorder = ps
		reader = ps
	}

	api := market.NewClient(cfg.Market.BaseURL)
	ctrl := board.NewController(
		board.NewQuoteFetcher(api),
		board.NewEarningsFetcher(api),
		settings,
		recorder,
		board.Options{
			RefreshEvery:   time.Duration(cfg.Board.RefreshSecs) * time.Second,
			DefaultSymbols: cfg.Board.DefaultSymbols,
			DefaultToken:   cfg.Market.Token,
		},
		logger,
	)
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial load, then the recurring timer if enabled.
	go ctrl.Refresh(ctx)
	ctrl.SetAutoRefresh(cfg.Board.AutoRefresh)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: httpapi.NewServer(ctrl, reader, logger).Handler(),
	}

	go func() {
		logger.Info("tickboard-server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
