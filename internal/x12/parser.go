package x12

import (
	"strings"
	"time"
)

// Parser composes tokenizing, detection and header extraction into one pass.
// It holds only read-only tables and is safe for concurrent use.
type Parser struct {
	tables   Tables
	detector *Detector
}

func NewParser(tables Tables) *Parser {
	return &Parser{
		tables:   tables,
		detector: NewDetector(tables),
	}
}

func (p *Parser) Tables() Tables {
	return p.tables
}

func (p *Parser) Detector() *Detector {
	return p.detector
}

// Parse tokenizes raw content and classifies it. Malformed input still produces a
// transaction; problems are reported by validation.
func (p *Parser) Parse(raw string) *Transaction {
	start := time.Now()

	segments := Tokenize(raw)
	for i := range segments {
		segments[i].Definition = p.tables.Definitions[segments[i].Tag]
	}

	tx := &Transaction{
		Type:     p.detector.DetectFormat(segments),
		Segments: segments,
	}

	if isa, ok := tx.First(TagISA); ok {
		tx.Metadata = interchangeMetadata(isa)
	}

	tx.Payer = p.detector.IdentifyPayer(tx)

	if tx.Type != FormatUnknown {
		tx.BusinessContext = p.tables.Format(tx.Type).Description
	}

	tx.Statistics = Statistics{
		TotalSegments:    len(segments),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	return tx
}

func interchangeMetadata(isa Segment) Metadata {
	fields := InterchangeFields(isa)

	field := func(pos int) string {
		if pos > len(fields) {
			return ""
		}

		return strings.TrimSpace(fields[pos-1])
	}

	md := Metadata{
		Sender:          field(6),
		Receiver:        field(8),
		InterchangeDate: field(9),
		InterchangeTime: field(10),
		VersionID:       field(12),
		TestIndicator:   field(15),
	}

	if len(fields) >= 16 {
		md.ControlNumber = field(13)
	}

	return md
}
