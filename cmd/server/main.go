package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"excelsaver/internal/config"
	"excelsaver/internal/domain"
	"excelsaver/internal/extractor/gemini"
	"excelsaver/internal/handler"
	"excelsaver/internal/logger"
	"excelsaver/internal/port"
	"excelsaver/internal/repository/firestore"
	"excelsaver/internal/repository/memory"
	"excelsaver/internal/router"
	"excelsaver/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := newInvoiceRepo(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize invoice store: %w", err)
	}

	var extractor port.InvoiceExtractor
	if cfg.Extract.APIKey != "" {
		extractor, err = gemini.NewExtractor(context.Background(), cfg.Extract)
		if err != nil {
			return fmt.Errorf("failed to initialize extractor: %w", err)
		}
	} else {
		log.Warn().Msg("no extraction API key configured; scan endpoint disabled")
		extractor = disabledExtractor{}
	}

	// Services
	invoiceSvc := service.NewInvoiceService(repo, extractor, cfg.Export.DecimalComma)
	columnSvc := service.NewColumnService()

	// Handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc, columnSvc, cfg.Export.PageSize)
	columnH := handler.NewColumnHandler(columnSvc)
	healthH := handler.NewHealthHandler()

	r := router.Setup(cfg, invoiceH, columnH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info().Str("addr", cfg.Server.Port).Str("store", cfg.Store.Provider).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// disabledExtractor stands in when no model API key is configured so the
// rest of the API still works.
type disabledExtractor struct{}

func (disabledExtractor) Extract(context.Context, port.ExtractInput) (*domain.Invoice, error) {
	return nil, fmt.Errorf("%w: extraction is not configured", domain.ErrExtractionFailed)
}

func newInvoiceRepo(cfg *config.Config) (port.InvoiceRepository, error) {
	switch strings.ToLower(cfg.Store.Provider) {
	case "firestore":
		return firestore.NewInvoiceRepo(cfg.Store)
	case "memory", "":
		return memory.NewInvoiceRepo(), nil
	default:
		return nil, fmt.Errorf("unknown store provider %q", cfg.Store.Provider)
	}
}
