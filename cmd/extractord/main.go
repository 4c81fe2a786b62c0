package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/freightdocs/invoice-extractor/internal/common"
	"github.com/freightdocs/invoice-extractor/internal/document"
	"github.com/freightdocs/invoice-extractor/internal/export"
	"github.com/freightdocs/invoice-extractor/internal/llm/gemini"
	"github.com/freightdocs/invoice-extractor/internal/pipeline"
	"github.com/freightdocs/invoice-extractor/internal/server"
	"github.com/freightdocs/invoice-extractor/internal/session"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := document.NewLoader(cfg.Upload.MaxBytes, logger)
	extractor := gemini.NewClient(gemini.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	processor := pipeline.NewProcessor(loader, extractor, cfg.LLM.Timeout, logger)
	sessions := session.NewStore(cfg.Session.TTL, cfg.Session.Accumulate, logger)
	writer := export.NewWriter(logger)

	srv := server.New(cfg, processor, sessions, writer, logger)
	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr, "model", cfg.LLM.Model)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	logger.Info("stopped")
}
