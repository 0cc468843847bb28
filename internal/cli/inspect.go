package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the annotated segments of a file",
		Example: `  # Segment table with definitions and validity
  edi inspect enrollment.834

  # Full analysis as JSON
  edi inspect enrollment.834 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			a, charset, err := e.analyzeFile(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if asJSON {
				return renderJSON(w, a)
			}

			tx := a.Transaction

			payer := "unknown"
			if tx.Payer != nil {
				payer = fmt.Sprintf("%s (%s)", tx.Payer.Name, tx.Payer.ID)
			}

			fmt.Fprintf(w, "%s: %s, %s\n", args[0], tx.Type, charset)
			fmt.Fprintf(w, "Sender: %s  Receiver: %s  Control: %s  Payer: %s\n",
				tx.Metadata.Sender, tx.Metadata.Receiver, tx.Metadata.ControlNumber, payer)

			if tx.BusinessContext != "" {
				fmt.Fprintln(w, tx.BusinessContext)
			}

			renderSegments(w, tx.Segments)
			renderIssues(w, a.Validation)

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full analysis as JSON")

	return cmd
}
