package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

const (
	// DefaultOrphanDistance is how many segments after an INS an NM1*IL may appear
	// and still be attributed to that member.
	DefaultOrphanDistance = 10

	isaFieldCount = 16
)

type Options struct {
	OrphanDistance int
}

func DefaultOptions() Options {
	return Options{OrphanDistance: DefaultOrphanDistance}
}

// Validator checks a parsed transaction against the structural rules of its format.
// It is stateless between calls.
type Validator struct {
	tables x12.Tables
	opts   Options
}

func New(tables x12.Tables, opts Options) *Validator {
	if opts.OrphanDistance <= 0 {
		opts.OrphanDistance = DefaultOrphanDistance
	}

	return &Validator{tables: tables, opts: opts}
}

// Validate runs every pass and never fails: problems are returned as issues.
func (v *Validator) Validate(tx *x12.Transaction) *Result {
	res := &Result{
		CriticalIssues: []Issue{},
		Warnings:       []Issue{},
		Info:           []Issue{},
	}

	if len(tx.Segments) == 0 {
		res.add(Issue{
			ID:          "empty-transaction",
			Category:    CategoryCritical,
			Kind:        KindValidation,
			Rule:        "empty-transaction",
			Message:     "No segments found",
			Description: "The content contains no non-blank lines.",
			Suggestion:  "Check that the uploaded file is an X12 interchange.",
		})
		res.finish()

		return res
	}

	v.checkRequired(tx, res)
	v.checkEnvelope(tx, res)
	v.checkControlNumbers(tx, res)
	v.checkFields(tx, res)
	v.checkKnownSegments(tx, res)

	switch tx.Type {
	case x12.Format834:
		v.checkOrphanedMembers(tx, res)
	case x12.Format820:
		v.checkPayments(tx, res)
	}

	res.finish()

	return res
}

// Missing segments have no location of their own; the issue points at the first
// segment of the transaction.
func (v *Validator) checkRequired(tx *x12.Transaction, res *Result) {
	format := v.tables.Format(tx.Type)

	if format.Code == x12.FormatUnknown {
		res.add(Issue{
			ID:          "unknown-format",
			Category:    CategoryInfo,
			Kind:        KindValidation,
			Rule:        "unknown-format",
			Segment:     tx.Segments[0],
			Message:     "Transaction type could not be determined",
			Description: "No supported ST01 code or segment markers were found; only envelope rules apply.",
		})
	}

	present := make(map[string]bool, len(tx.Segments))
	for _, seg := range tx.Segments {
		present[seg.Tag] = true
	}

	for _, tag := range format.RequiredSegments {
		if present[tag] {
			continue
		}

		res.add(Issue{
			ID:          "missing-segment:" + tag,
			Category:    CategoryCritical,
			Kind:        KindValidation,
			Rule:        "required-segment",
			Segment:     tx.Segments[0],
			Message:     fmt.Sprintf("Missing required segment %s", tag),
			Description: fmt.Sprintf("%s transactions must contain a %s (%s) segment.", format.Code, tag, v.describe(tag)),
			Suggestion:  fmt.Sprintf("Add the %s segment.", tag),
		})
	}
}

func (v *Validator) checkEnvelope(tx *x12.Transaction, res *Result) {
	first := tx.Segments[0]
	if first.Tag != x12.TagISA {
		res.add(Issue{
			ID:          fmt.Sprintf("envelope-first:%d", first.LineNumber),
			Category:    CategoryCritical,
			Kind:        KindValidation,
			Rule:        "envelope-first",
			Segment:     first,
			Message:     fmt.Sprintf("Interchange must start with ISA, found %q", first.Tag),
			Description: "The ISA interchange header must be the first segment of the file.",
			Suggestion:  "Move or add the ISA segment at the top of the file.",
		})
	}

	last := tx.Segments[len(tx.Segments)-1]
	if last.Tag != x12.TagIEA {
		res.add(Issue{
			ID:          fmt.Sprintf("envelope-last:%d", last.LineNumber),
			Category:    CategoryCritical,
			Kind:        KindValidation,
			Rule:        "envelope-last",
			Segment:     last,
			Message:     fmt.Sprintf("Interchange must end with IEA, found %q", last.Tag),
			Description: "The IEA interchange trailer must be the last segment of the file.",
			Suggestion:  "Check for truncation and add the IEA segment at the end of the file.",
		})
	}
}

func (v *Validator) checkControlNumbers(tx *x12.Transaction, res *Result) {
	isa, ok := tx.First(x12.TagISA)
	if !ok {
		return
	}

	trailers := tx.All(x12.TagIEA)
	if len(trailers) == 0 {
		return
	}

	iea := trailers[len(trailers)-1]

	header := strings.TrimSpace(x12.InterchangeField(isa, 13))
	trailer := strings.TrimSpace(iea.Element(2))

	if header == trailer {
		return
	}

	res.add(Issue{
		ID:          fmt.Sprintf("control-number-mismatch:%d", iea.LineNumber),
		Category:    CategoryCritical,
		Kind:        KindValidation,
		Rule:        "control-number",
		Segment:     iea,
		Message:     fmt.Sprintf("Control number mismatch: ISA13 %q, IEA02 %q", header, trailer),
		Description: "The interchange control number in ISA13 must equal IEA02.",
		Suggestion:  "Regenerate the trailer with the header's control number.",
	})
}

func (v *Validator) checkFields(tx *x12.Transaction, res *Result) {
	for _, seg := range tx.Segments {
		if seg.Tag == x12.TagISA {
			if n := len(x12.InterchangeFields(seg)); n < isaFieldCount {
				res.add(Issue{
					ID:          fmt.Sprintf("isa-element-count:%d", seg.LineNumber),
					Category:    CategoryCritical,
					Kind:        KindValidation,
					Rule:        "isa-element-count",
					Segment:     seg,
					Message:     fmt.Sprintf("ISA has %d elements, expected %d", n, isaFieldCount),
					Description: "The interchange header is fixed-format with 16 elements.",
					Suggestion:  "Check the ISA segment for missing or truncated elements.",
				})
			}
		}

		for _, rule := range fieldRules {
			if rule.tag != seg.Tag || !rule.applies(tx.Type, seg) {
				continue
			}

			value, ok := rule.value(seg)
			if !ok || rule.pattern.MatchString(value) {
				continue
			}

			res.add(Issue{
				ID:          fmt.Sprintf("field-format:%s:%d", rule.name, seg.LineNumber),
				Category:    CategoryWarning,
				Kind:        KindValidation,
				Rule:        "field-format",
				Segment:     seg,
				Message:     fmt.Sprintf("%s %q: %s", rule.name, value, rule.message),
				Description: fmt.Sprintf("%s must match %s.", rule.name, rule.pattern.String()),
				Suggestion:  rule.suggestion,
			})
		}
	}
}

func (v *Validator) checkKnownSegments(tx *x12.Transaction, res *Result) {
	for _, seg := range tx.Segments {
		if _, ok := v.tables.Definitions[seg.Tag]; ok {
			continue
		}

		res.add(Issue{
			ID:          fmt.Sprintf("unknown-segment:%d", seg.LineNumber),
			Category:    CategoryInfo,
			Kind:        KindValidation,
			Rule:        "unknown-segment",
			Segment:     seg,
			Message:     fmt.Sprintf("Unrecognized segment %q", seg.Tag),
			Description: "The segment tag is not in the segment definition table.",
		})
	}
}

// checkOrphanedMembers flags NM1*IL segments that are not close enough after an INS
// to be attributed to a member.
func (v *Validator) checkOrphanedMembers(tx *x12.Transaction, res *Result) {
	lastStart := -1

	for i, seg := range tx.Segments {
		if seg.Tag == "INS" {
			lastStart = i
			continue
		}

		if seg.Tag != "NM1" || seg.Element(1) != "IL" {
			continue
		}

		if lastStart >= 0 && i-lastStart <= v.opts.OrphanDistance {
			continue
		}

		res.add(Issue{
			ID:          fmt.Sprintf("orphaned-member:%d", seg.LineNumber),
			Category:    CategoryWarning,
			Kind:        KindBusinessRule,
			Rule:        "orphaned-member",
			Segment:     seg,
			Message:     "Insured name segment is possibly orphaned",
			Description: fmt.Sprintf("NM1*IL should follow its INS member segment within %d segments.", v.opts.OrphanDistance),
			Suggestion:  "Check that each member loop starts with an INS segment.",
		})
	}
}

var paymentAmount = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func (v *Validator) checkPayments(tx *x12.Transaction, res *Result) {
	payments := tx.All("BPR")

	if len(payments) == 0 {
		res.add(Issue{
			ID:          "missing-payment",
			Category:    CategoryCritical,
			Kind:        KindCompliance,
			Rule:        "missing-payment",
			Segment:     tx.Segments[0],
			Message:     "No BPR financial information segment",
			Description: "Premium payment transactions must carry at least one BPR segment.",
			Suggestion:  "Add a BPR segment with the payment amount and method.",
		})

		return
	}

	for _, bpr := range payments {
		amount := strings.TrimSpace(bpr.Element(2))
		if paymentAmount.MatchString(amount) {
			continue
		}

		res.add(Issue{
			ID:          fmt.Sprintf("payment-amount:%d", bpr.LineNumber),
			Category:    CategoryWarning,
			Kind:        KindBusinessRule,
			Rule:        "payment-amount",
			Segment:     bpr,
			Message:     fmt.Sprintf("BPR02 %q is not a valid amount", amount),
			Description: "The monetary amount must be a decimal number with at most two decimal places.",
			Suggestion:  "Use a plain decimal amount such as 1250.00.",
		})
	}
}

func (v *Validator) describe(tag string) string {
	if d, ok := v.tables.Definitions[tag]; ok {
		return d
	}

	return "segment"
}
