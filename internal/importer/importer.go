package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

const x12Date = "20060102"

// Analysis is the pure result of running the pipeline over one interchange.
type Analysis struct {
	Transaction *x12.Transaction        `json:"transaction"`
	Validation  *validation.Result      `json:"validation"`
	Extraction  *extract.Result         `json:"extraction"`
	Duplicates  []extract.DuplicatePair `json:"duplicates"`
}

// Outcome is a processed and persisted file.
type Outcome struct {
	FileID   uuid.UUID
	Charset  string
	Analysis *Analysis
}

// Detail returns the analysis in stored-file form without persisting it.
func (a *Analysis) Detail(name string) *edifile.Detail {
	rec := record(name, "", "", a)

	return &edifile.Detail{
		File:        rec.File,
		Transaction: rec.Transaction,
		Members:     rec.Members,
		Payments:    rec.Payments,
	}
}

// record maps an analysis onto the rows stored for one file.
func record(name, text, charset string, a *Analysis) *edifile.Record {
	tx := a.Transaction

	f := &edifile.File{
		FileName:   name,
		Status:     edifile.StatusProcessed,
		Charset:    charset,
		SizeBytes:  int64(len(text)),
		RawContent: text,
	}

	if tx.Type != x12.FormatUnknown {
		f.FileType = new(tx.Type)
	}

	if tx.Payer != nil {
		f.PayerID = tx.Payer.ID
	}

	rec := &edifile.Record{
		File: f,
		Transaction: &edifile.Transaction{
			TransactionType: tx.Type,
			ControlNumber:   tx.Metadata.ControlNumber,
			RawSegments:     tx.Segments,
			ParsedData:      a.Extraction.Header.Map(),
			IsValid:         a.Validation.IsValid,
		},
	}

	for _, m := range a.Extraction.Members {
		rec.Members = append(rec.Members, member(m))
	}

	for _, p := range a.Extraction.Payments {
		rec.Payments = append(rec.Payments, payment(p))
	}

	for _, issue := range a.Validation.Issues() {
		rec.Errors = append(rec.Errors, issueError(issue))
	}

	for _, d := range a.Duplicates {
		rec.Errors = append(rec.Errors, duplicateError(a.Extraction.Members, d))
	}

	return rec
}

func member(m extract.Member) *edifile.Member {
	return &edifile.Member{
		MemberID:    m.MemberID,
		FirstName:   m.FirstName,
		MiddleName:  m.MiddleName,
		LastName:    m.LastName,
		SSN:         m.SSN,
		DateOfBirth: parseDate(m.DateOfBirth),
		Gender:      m.Gender,
		Address1:    m.Address1,
		Address2:    m.Address2,
		City:        m.City,
		State:       m.State,
		PostalCode:  m.PostalCode,
		Status:      memberStatus(m.MaintenanceType),
	}
}

// memberStatus maps the INS03 maintenance type code.
func memberStatus(code string) edifile.MemberStatus {
	switch code {
	case "024":
		return edifile.MemberTerminated
	case "021", "030", "001":
		return edifile.MemberActive
	default:
		return edifile.MemberPending
	}
}

func payment(p extract.Payment) *edifile.Payment {
	return &edifile.Payment{
		Amount:      p.MonetaryAmount.Round(2),
		PaymentDate: parseDate(p.EffectiveDate),
		TraceNumber: p.TraceNumber,
		Method:      p.PaymentMethod,
		Status:      edifile.PaymentPending,
	}
}

func issueError(issue validation.Issue) *edifile.Error {
	return &edifile.Error{
		ErrorType:   edifile.ErrorType(issue.Kind),
		Severity:    severity(issue.Category),
		Code:        issue.Rule,
		Message:     issue.Message,
		Description: issue.Description,
		Suggestion:  issue.Suggestion,
		SegmentTag:  issue.Segment.Tag,
		LineNumber:  issue.Segment.LineNumber,
	}
}

func severity(c validation.Category) edifile.Severity {
	switch c {
	case validation.CategoryCritical:
		return edifile.SeverityCritical
	case validation.CategoryWarning:
		return edifile.SeverityMedium
	default:
		return edifile.SeverityInfo
	}
}

func duplicateError(members []extract.Member, d extract.DuplicatePair) *edifile.Error {
	a, b := members[d.First], members[d.Second]

	return &edifile.Error{
		ErrorType: edifile.ErrorFraud,
		Severity:  edifile.SeverityMedium,
		Code:      "duplicate-member",
		Message: fmt.Sprintf("Possible duplicate member: %s %s (line %d) and %s %s (line %d)",
			a.FirstName, a.LastName, a.LineNumber, b.FirstName, b.LastName, b.LineNumber),
		Description: fmt.Sprintf("Same date of birth %s and %.0f%% name similarity", a.DateOfBirth, d.Similarity*100),
		Suggestion:  "Confirm both enrollments belong to different people",
		SegmentTag:  "INS",
		LineNumber:  b.LineNumber,
	}
}

// parseDate reads a CCYYMMDD value; anything else yields nil.
func parseDate(s string) *time.Time {
	t, err := time.Parse(x12Date, s)
	if err != nil {
		return nil
	}

	return &t
}
