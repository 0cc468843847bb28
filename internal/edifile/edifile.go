package edifile

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// Status is the processing state of an uploaded file.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusProcessed  Status = "processed"
	StatusFailed     Status = "failed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusProcessed, StatusFailed:
		return true
	}

	return false
}

type MemberStatus string

const (
	MemberActive     MemberStatus = "active"
	MemberTerminated MemberStatus = "terminated"
	MemberPending    MemberStatus = "pending"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentPosted     PaymentStatus = "posted"
	PaymentFailed     PaymentStatus = "failed"
	PaymentReconciled PaymentStatus = "reconciled"
)

type ErrorType string

const (
	ErrorValidation   ErrorType = "validation"
	ErrorParsing      ErrorType = "parsing"
	ErrorCompliance   ErrorType = "compliance"
	ErrorBusinessRule ErrorType = "business_rule"
	ErrorFraud        ErrorType = "fraud"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// File is one uploaded interchange. FileType is nil when detection found no
// supported transaction set.
type File struct {
	ID         uuid.UUID       `json:"id"`
	FileName   string          `json:"fileName"`
	FileType   *x12.FormatCode `json:"fileType,omitempty"`
	Status     Status          `json:"status"`
	Charset    string          `json:"charset,omitempty"`
	SizeBytes  int64           `json:"sizeBytes"`
	RawContent string          `json:"-"`
	PayerID    string          `json:"payerId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Transaction is the parsed form of a file.
type Transaction struct {
	ID              uuid.UUID         `json:"id"`
	FileID          uuid.UUID         `json:"fileId"`
	TransactionType x12.FormatCode    `json:"transactionType"`
	ControlNumber   string            `json:"controlNumber"`
	RawSegments     []x12.Segment     `json:"rawSegments,omitempty"`
	ParsedData      map[string]string `json:"parsedData"`
	IsValid         bool              `json:"isValid"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type Member struct {
	ID            uuid.UUID    `json:"id"`
	TransactionID uuid.UUID    `json:"transactionId"`
	MemberID      string       `json:"memberId"`
	FirstName     string       `json:"firstName"`
	MiddleName    string       `json:"middleName"`
	LastName      string       `json:"lastName"`
	SSN           string       `json:"ssn"`
	DateOfBirth   *time.Time   `json:"dateOfBirth,omitempty"`
	Gender        string       `json:"gender"`
	Address1      string       `json:"address1"`
	Address2      string       `json:"address2"`
	City          string       `json:"city"`
	State         string       `json:"state"`
	PostalCode    string       `json:"postalCode"`
	Status        MemberStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
}

type Payment struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"` // stored with 2 decimal places
	PaymentDate   *time.Time      `json:"paymentDate,omitempty"`
	TraceNumber   string          `json:"traceNumber"`
	Method        string          `json:"method"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Error is a persisted validation issue or processing failure.
type Error struct {
	ID            uuid.UUID  `json:"id"`
	FileID        uuid.UUID  `json:"fileId"`
	TransactionID *uuid.UUID `json:"transactionId,omitempty"`
	ErrorType     ErrorType  `json:"errorType"`
	Severity      Severity   `json:"severity"`
	Code          string     `json:"code"`
	Message       string     `json:"message"`
	Description   string     `json:"description,omitempty"`
	Suggestion    string     `json:"suggestion,omitempty"`
	SegmentTag    string     `json:"segmentTag,omitempty"`
	LineNumber    int        `json:"lineNumber"`
	Resolved      bool       `json:"resolved"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// Record is everything produced from one file, persisted together.
type Record struct {
	File        *File
	Transaction *Transaction
	Members     []*Member
	Payments    []*Payment
	Errors      []*Error
}

// Detail is a stored file with its parsed children.
type Detail struct {
	File        *File        `json:"file"`
	Transaction *Transaction `json:"transaction,omitempty"`
	Members     []*Member    `json:"members"`
	Payments    []*Payment   `json:"payments"`
}
