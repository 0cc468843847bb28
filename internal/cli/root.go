// Package cli provides the command-line interface for offline EDI work.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/config"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/logging"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// ErrInvalid is returned when at least one validated file has critical issues.
var ErrInvalid = errors.New("validation failed")

type envKey struct{}

// env is the state shared by every subcommand.
type env struct {
	cfg    *config.Config
	tables x12.Tables
	svc    *importer.Service
}

type rootFlags struct {
	payers         string
	orphanDistance int
	similarity     float64
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "edi",
		Short: "Inspect, validate and convert X12 834/820 files",
		Long: `edi parses X12 interchanges line by line, detects the transaction set and
trading partner, validates structure and control numbers, and extracts
enrollment members and premium payments.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			e, err := newEnv(cmd, flags)
			if err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.payers, "payers", "", "YAML payer directory (default: $PAYER_DIRECTORY or built-in)")
	rootCmd.PersistentFlags().IntVar(&flags.orphanDistance, "orphan-distance", 0, "Lines an NM1*IL may sit from its INS before it is reported")
	rootCmd.PersistentFlags().Float64Var(&flags.similarity, "similarity", 0, "Name similarity at which two members are reported as duplicates")

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newExtractCommand())
	rootCmd.AddCommand(newRoundtripCommand())
	rootCmd.AddCommand(newCompareCommand())
	rootCmd.AddCommand(newTokenCommand())

	return rootCmd
}

func newEnv(cmd *cobra.Command, flags rootFlags) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("payers") {
		cfg.PayerDirectory = flags.payers
	}

	if cmd.Flags().Changed("orphan-distance") {
		cfg.Validation.OrphanDistance = flags.orphanDistance
	}

	if cmd.Flags().Changed("similarity") {
		cfg.Validation.DuplicateSimilarity = flags.similarity
	}

	tables, err := x12.LoadTables(cfg.PayerDirectory)
	if err != nil {
		return nil, err
	}

	opts := importer.Options{
		Validation:          validation.Options{OrphanDistance: cfg.Validation.OrphanDistance},
		DuplicateSimilarity: cfg.Validation.DuplicateSimilarity,
		MaxBytes:            cfg.Server.MaxUploadBytes,
	}

	return &env{
		cfg:    cfg,
		tables: tables,
		svc:    importer.NewService(tables, nil, nil, opts, logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log)),
	}, nil
}

func getEnv(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKey{}).(*env)
	return e
}

// analyzeFile runs the pipeline over one file on disk.
func (e *env) analyzeFile(path string) (*importer.Analysis, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	a, charset, err := e.svc.AnalyzeReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}

	return a, charset, nil
}
