package cli

import (
	"fmt"
	"runtime"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
)

type validateResult struct {
	Path     string             `json:"path"`
	Analysis *importer.Analysis `json:"analysis"`
}

func newValidateCommand() *cobra.Command {
	var (
		asJSON  bool
		verbose bool
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate one or more files",
		Long: `Validate checks every file concurrently and prints one summary line per file.
The command fails when any file has a critical issue.`,
		Example: `  edi validate inbound/*.834
  edi validate premium.820 -v`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			results := make([]validateResult, len(args))

			g, _ := errgroup.WithContext(cmd.Context())
			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}

			g.SetLimit(jobs)

			for i, path := range args {
				g.Go(func() error {
					a, _, err := e.analyzeFile(path)
					if err != nil {
						return err
					}

					results[i] = validateResult{Path: path, Analysis: a}

					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if asJSON {
				if err := renderJSON(w, results); err != nil {
					return err
				}
			} else {
				t := newTable(w, table.Row{"File", "Type", "Result", "Critical", "Warnings"})

				for _, r := range results {
					res := r.Analysis.Validation

					verdict := text.FgGreen.Sprint("valid")
					if !res.IsValid {
						verdict = text.FgRed.Sprint("invalid")
					}

					t.AppendRow(table.Row{r.Path, r.Analysis.Transaction.Type, verdict, len(res.CriticalIssues), len(res.Warnings)})
				}

				t.Render()

				if verbose {
					for _, r := range results {
						if r.Analysis.Validation.TotalIssues == 0 {
							continue
						}

						fmt.Fprintf(w, "\n%s\n", r.Path)
						renderIssues(w, r.Analysis.Validation)
					}
				}
			}

			for _, r := range results {
				if !r.Analysis.Validation.IsValid {
					return ErrInvalid
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "List the issues of every file")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "Files validated in parallel (0 or less uses every CPU)")

	return cmd
}
