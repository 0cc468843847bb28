package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/config"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/database"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	fileStore "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile/store"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
	ediHttp "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http"
	exportHandler "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/export"
	filesHandler "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/files"
	parseHandler "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/parse"
	payersHandler "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/http/payers"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/logging"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching"
	matchingStore "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching/store"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log)
	slog.SetDefault(logger)

	tables, err := x12.LoadTables(cfg.PayerDirectory)
	if err != nil {
		slog.Error("failed to load payer directory", "path", cfg.PayerDirectory, "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	opts := importer.Options{
		Validation:          validation.Options{OrphanDistance: cfg.Validation.OrphanDistance},
		DuplicateSimilarity: cfg.Validation.DuplicateSimilarity,
		MaxBytes:            cfg.Server.MaxUploadBytes,
	}

	var (
		fileService     = edifile.NewService(fileStore.New(db))
		matchingService = matching.NewService(matchingStore.New(db), tables)
		importService   = importer.NewService(tables, fileService, matchingService, opts, logger)
		exportService   = export.NewService(fileService, tables)
	)

	var (
		parseH  = parseHandler.NewHandler(importService)
		filesH  = filesHandler.NewHandler(fileService, importService, exportService, cfg.Server.MaxUploadBytes)
		payersH = payersHandler.NewHandler(matchingService)
		exportH = exportHandler.NewHandler(exportService)
	)

	router := ediHttp.New(ediHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		AuthSecret:  cfg.Server.AuthSecret,
	}, parseH, filesH, payersH, exportH)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr, "payers", len(tables.Payers))

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
