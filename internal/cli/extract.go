package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
)

func newExtractCommand() *cobra.Command {
	var xlsxPath, parquetPath string

	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Print the business data of a file as JSON",
		Example: `  edi extract enrollment.834
  edi extract enrollment.834 --xlsx roster.xlsx --parquet roster.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			a, _, err := e.analyzeFile(args[0])
			if err != nil {
				return err
			}

			if xlsxPath != "" || parquetPath != "" {
				members, payments := export.Rows(a.Detail(filepath.Base(args[0])))

				if xlsxPath != "" {
					if err := writeFile(xlsxPath, func(f *os.File) error {
						return export.WriteXLSX(f, members, payments)
					}); err != nil {
						return err
					}
				}

				if parquetPath != "" {
					if err := writeFile(parquetPath, func(f *os.File) error {
						return export.WriteParquet(f, members)
					}); err != nil {
						return err
					}
				}
			}

			return renderJSON(cmd.OutOrStdout(), a.Extraction)
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the member and payment roster to an Excel workbook")
	cmd.Flags().StringVar(&parquetPath, "parquet", "", "Also write the member roster to a Parquet file")

	return cmd
}

func writeFile(path string, write func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}

	return f.Close()
}
