package validation

import (
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// Category is the severity bucket of an issue.
type Category string

const (
	CategoryCritical Category = "critical"
	CategoryWarning  Category = "warning"
	CategoryInfo     Category = "info"
)

// Kind classifies what an issue is about. It maps onto edi_errors.error_type.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindCompliance   Kind = "compliance"
	KindBusinessRule Kind = "business_rule"
)

// Issue is one finding of a validation run. ID is derived from the rule and the
// location, so the same input always yields the same IDs.
type Issue struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Kind        Kind        `json:"kind"`
	Rule        string      `json:"rule"`
	Segment     x12.Segment `json:"relatedSegment"`
	Message     string      `json:"message"`
	Description string      `json:"description"`
	Suggestion  string      `json:"suggestion,omitempty"`
}

// Result groups the issues of one run. Info issues are reported separately and
// count toward neither TotalIssues nor validity.
type Result struct {
	IsValid        bool    `json:"isValid"`
	CriticalIssues []Issue `json:"criticalIssues"`
	Warnings       []Issue `json:"warnings"`
	Info           []Issue `json:"info"`
	TotalIssues    int     `json:"totalIssues"`
}

// Issues returns every issue, critical first, then warnings, then info.
func (r *Result) Issues() []Issue {
	out := make([]Issue, 0, len(r.CriticalIssues)+len(r.Warnings)+len(r.Info))
	out = append(out, r.CriticalIssues...)
	out = append(out, r.Warnings...)

	return append(out, r.Info...)
}

func (r *Result) add(issue Issue) {
	switch issue.Category {
	case CategoryCritical:
		r.CriticalIssues = append(r.CriticalIssues, issue)
	case CategoryWarning:
		r.Warnings = append(r.Warnings, issue)
	default:
		r.Info = append(r.Info, issue)
	}
}

func (r *Result) finish() {
	r.IsValid = len(r.CriticalIssues) == 0
	r.TotalIssues = len(r.CriticalIssues) + len(r.Warnings)
}

// Annotate returns a copy of tx whose segments carry the messages of the critical
// and warning issues that reference them, and whose statistics carry the counts.
// The input transaction is not modified.
func Annotate(tx *x12.Transaction, res *Result) *x12.Transaction {
	out := *tx
	out.Segments = make([]x12.Segment, len(tx.Segments))

	byLine := make(map[int][]string)

	for _, issue := range res.CriticalIssues {
		byLine[issue.Segment.LineNumber] = append(byLine[issue.Segment.LineNumber], issue.Message)
	}

	for _, issue := range res.Warnings {
		byLine[issue.Segment.LineNumber] = append(byLine[issue.Segment.LineNumber], issue.Message)
	}

	for i, seg := range tx.Segments {
		errs := byLine[seg.LineNumber]

		seg.Errors = errs
		seg.IsValid = new(len(errs) == 0)
		out.Segments[i] = seg
	}

	out.Statistics.ErrorCount = len(res.CriticalIssues)
	out.Statistics.WarningCount = len(res.Warnings)

	return &out
}
