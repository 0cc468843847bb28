package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/compare"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
)

func newCompareCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare BASE OTHER",
		Short: "Show member and payment differences between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			base, _, err := e.analyzeFile(args[0])
			if err != nil {
				return err
			}

			other, _, err := e.analyzeFile(args[1])
			if err != nil {
				return err
			}

			diff := compare.Compare(base.Extraction, other.Extraction)
			w := cmd.OutOrStdout()

			if asJSON {
				return renderJSON(w, diff)
			}

			if diff.Identical() {
				fmt.Fprintln(w, "no member or payment differences")
				return nil
			}

			t := newTable(w, table.Row{"Change", "Member", "Name", "Fields"})

			for _, m := range diff.Added {
				t.AppendRow(table.Row{"added", m.MemberID, memberName(m), ""})
			}

			for _, m := range diff.Removed {
				t.AppendRow(table.Row{"removed", m.MemberID, memberName(m), ""})
			}

			for _, c := range diff.Changed {
				t.AppendRow(table.Row{"changed", c.MemberID, "", strings.Join(c.Fields, ", ")})
			}

			t.Render()

			fmt.Fprintf(w, "%d unchanged; payments %s -> %s (delta %s)\n",
				diff.Unchanged,
				diff.BasePaymentTotal.StringFixed(2),
				diff.OtherPaymentTotal.StringFixed(2),
				diff.PaymentDelta.StringFixed(2))

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the diff as JSON")

	return cmd
}

func memberName(m extract.Member) string {
	return strings.TrimSpace(m.LastName + ", " + m.FirstName)
}
