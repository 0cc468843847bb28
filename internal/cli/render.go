package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

func newTable(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	return t
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func renderSegments(w io.Writer, segments []x12.Segment) {
	t := newTable(w, table.Row{"Line", "Tag", "Definition", "OK", "Elements"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 5, WidthMax: 60},
	})

	for _, seg := range segments {
		ok := "✓"
		if seg.IsValid != nil && !*seg.IsValid {
			ok = text.FgRed.Sprint("✗")
		}

		t.AppendRow(table.Row{seg.LineNumber, seg.Tag, seg.Definition, ok, strings.Join(seg.Elements, " | ")})
	}

	t.Render()
}

func renderIssues(w io.Writer, res *validation.Result) {
	if res.TotalIssues == 0 && len(res.Info) == 0 {
		return
	}

	t := newTable(w, table.Row{"Severity", "Line", "Rule", "Message"})

	appendIssues := func(issues []validation.Issue, label string) {
		for _, issue := range issues {
			t.AppendRow(table.Row{label, issue.Segment.LineNumber, issue.Rule, issue.Message})
		}
	}

	appendIssues(res.CriticalIssues, text.FgRed.Sprint("critical"))
	appendIssues(res.Warnings, text.FgYellow.Sprint("warning"))
	appendIssues(res.Info, "info")

	t.Render()
}
