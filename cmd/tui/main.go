package main

import (
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/cmd/tui/internal/view"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/config"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/database"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	fileStore "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile/store"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/logging"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching"
	matchingStore "github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching/store"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type model struct {
	appName         string
	fileService     *edifile.Service
	matchingService *matching.Service
	importService   *importer.Service
	exportService   *export.Service

	currentView View

	openView   view.OpenModel
	filesView  view.FilesModel
	errorsView view.ErrorsModel
	exportView view.ExportModel
}

const tuiLogPath = "edi-tui.log"

type View int

const (
	ViewMenu   View = 0
	ViewOpen   View = 1
	ViewFiles  View = 2
	ViewErrors View = 3
	ViewExport View = 4
)

func initialModel() model {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFile, err := os.OpenFile(tuiLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		slog.Error("failed to open log file", "path", tuiLogPath, "error", err)
		os.Exit(1)
	}

	logger := logging.NewWithWriter(logFile, cfg.Log)
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

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	opts := importer.Options{
		Validation:          validation.Options{OrphanDistance: cfg.Validation.OrphanDistance},
		DuplicateSimilarity: cfg.Validation.DuplicateSimilarity,
		MaxBytes:            cfg.Server.MaxUploadBytes,
	}

	fileSvc := edifile.NewService(fileStore.New(db))
	matchSvc := matching.NewService(matchingStore.New(db), tables)
	impSvc := importer.NewService(tables, fileSvc, matchSvc, opts, logger)
	expSvc := export.NewService(fileSvc, tables)

	return model{
		appName:         cfg.App.Name,
		fileService:     fileSvc,
		matchingService: matchSvc,
		importService:   impSvc,
		exportService:   expSvc,
		currentView:     ViewMenu,
		openView:        view.NewOpenModel(impSvc, matchSvc),
		filesView:       view.NewFilesModel(fileSvc),
		exportView:      view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewOpen
				m.openView = view.NewOpenModel(m.importService, m.matchingService)

				return m, m.openView.Init()
			case "2":
				m.currentView = ViewFiles
				m.filesView = view.NewFilesModel(m.fileService)

				return m, m.filesView.Init()
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.OpenErrorsMsg:
		m.currentView = ViewErrors
		m.errorsView = view.NewErrorsModel(m.fileService, msg.File)

		return m, m.errorsView.Init()
	case view.BackMsg:
		if m.currentView == ViewErrors {
			m.currentView = ViewFiles
			return m, m.filesView.Init()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewOpen:
		var newModel tea.Model
		newModel, cmd = m.openView.Update(msg)
		m.openView = newModel.(view.OpenModel)
	case ViewFiles:
		var newModel tea.Model
		newModel, cmd = m.filesView.Update(msg)
		m.filesView = newModel.(view.FilesModel)
	case ViewErrors:
		var newModel tea.Model
		newModel, cmd = m.errorsView.Update(msg)
		m.errorsView = newModel.(view.ErrorsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.appName + "\n\n" +
				"1. Open EDI File\n" +
				"2. Stored Files\n" +
				"3. Export Files\n\n" +
				"q. Quit",
		)
	case ViewOpen:
		current = m.openView
	case ViewFiles:
		current = m.filesView
	case ViewErrors:
		current = m.errorsView
	case ViewExport:
		current = m.exportView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Padding(1, 1, 0).Render(current.Title()),
		current.View(),
		help,
	)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
