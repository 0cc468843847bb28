package files

import (
	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/importer"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type validationSummary struct {
	IsValid  bool `json:"isValid"`
	Critical int  `json:"critical"`
	Warnings int  `json:"warnings"`
	Info     int  `json:"info"`
}

type uploadResponse struct {
	ID         uuid.UUID         `json:"id"`
	FileName   string            `json:"fileName"`
	Type       x12.FormatCode    `json:"type"`
	PayerID    string            `json:"payerId,omitempty"`
	Charset    string            `json:"charset"`
	Validation validationSummary `json:"validation"`
	Members    int               `json:"members"`
	Payments   int               `json:"payments"`
	Duplicates int               `json:"duplicates"`
}

func toUploadResponse(name string, out *importer.Outcome) uploadResponse {
	a := out.Analysis

	resp := uploadResponse{
		ID:       out.FileID,
		FileName: name,
		Type:     a.Transaction.Type,
		Charset:  out.Charset,
		Validation: validationSummary{
			IsValid:  a.Validation.IsValid,
			Critical: len(a.Validation.CriticalIssues),
			Warnings: len(a.Validation.Warnings),
			Info:     len(a.Validation.Info),
		},
		Members:    len(a.Extraction.Members),
		Payments:   len(a.Extraction.Payments),
		Duplicates: len(a.Duplicates),
	}

	if a.Transaction.Payer != nil {
		resp.PayerID = a.Transaction.Payer.ID
	}

	return resp
}
