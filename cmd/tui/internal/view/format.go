package view

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
)

const dbTimeout = 5 * time.Second

// FormatAmount renders a monetary amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatSize renders a byte count the way file browsers do.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}

	return fmt.Sprintf("%d B", n)
}

func severityStyle(s edifile.Severity) lipgloss.Style {
	switch s {
	case edifile.SeverityCritical, edifile.SeverityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	case edifile.SeverityMedium:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	}

	return lipgloss.NewStyle().Faint(true)
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
