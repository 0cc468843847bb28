package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/encoding"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/validation"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Recorder interface {
	Ingest(ctx context.Context, rec *edifile.Record) (*edifile.Record, error)
	RecordFailure(ctx context.Context, f *edifile.File, cause error) error
}

type PayerMatcher interface {
	Suggest(ctx context.Context, identifiers ...string) (*x12.Payer, error)
}

type Options struct {
	Validation          validation.Options
	DuplicateSimilarity float64
	// MaxBytes caps the size of processed content. Zero disables the check.
	MaxBytes int64
}

func DefaultOptions() Options {
	return Options{
		Validation:          validation.DefaultOptions(),
		DuplicateSimilarity: extract.DefaultDuplicateSimilarity,
		MaxBytes:            10 << 20,
	}
}

type Service struct {
	parser    *x12.Parser
	validator *validation.Validator
	extractor *extract.Extractor
	files     Recorder
	payers    PayerMatcher
	opts      Options
	logger    *slog.Logger
}

// NewService builds the pipeline over tables. files and payers may be nil for
// analysis-only use.
func NewService(tables x12.Tables, files Recorder, payers PayerMatcher, opts Options, logger *slog.Logger) *Service {
	if opts.DuplicateSimilarity <= 0 {
		opts.DuplicateSimilarity = extract.DefaultDuplicateSimilarity
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		parser:    x12.NewParser(tables),
		validator: validation.New(tables, opts.Validation),
		extractor: extract.New(tables),
		files:     files,
		payers:    payers,
		opts:      opts,
		logger:    logger,
	}
}

// Analyze parses, validates and extracts raw X12 text. It never fails and
// persists nothing.
func (s *Service) Analyze(raw string) *Analysis {
	tx := s.parser.Parse(x12.Unwrap(raw))
	res := s.validator.Validate(tx)
	ext := s.extractor.Extract(tx)

	dups := extract.FindDuplicateMembers(ext.Members, s.opts.DuplicateSimilarity)
	if dups == nil {
		dups = []extract.DuplicatePair{}
	}

	return &Analysis{
		Transaction: validation.Annotate(tx, res),
		Validation:  res,
		Extraction:  ext,
		Duplicates:  dups,
	}
}

// AnalyzeReader decodes r to UTF-8 within the size limit and analyzes it.
func (s *Service) AnalyzeReader(r io.Reader) (*Analysis, string, error) {
	text, charset, err := encoding.ReadText(r, s.opts.MaxBytes)
	if err != nil {
		return nil, "", err
	}

	return s.Analyze(text), charset, nil
}

// Process analyzes an uploaded file and stores it with its members, payments and
// issues. Content that cannot be decoded is stored as a failed file.
func (s *Service) Process(ctx context.Context, name string, r io.Reader) (*Outcome, error) {
	if s.files == nil {
		return nil, errors.New("process: no file store configured")
	}

	text, charset, err := encoding.ReadText(r, s.opts.MaxBytes)
	if err != nil {
		s.fail(ctx, &edifile.File{FileName: name}, err)
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	a := s.Analyze(text)
	s.attachLearnedPayer(ctx, a.Transaction)

	s.logger.Debug("analyzed file",
		"name", name,
		"charset", charset,
		"type", a.Transaction.Type,
		"payer", payerID(a.Transaction.Payer),
		"critical", len(a.Validation.CriticalIssues),
		"warnings", len(a.Validation.Warnings),
		"duplicates", len(a.Duplicates),
	)

	rec := record(name, text, charset, a)

	stored, err := s.files.Ingest(ctx, rec)
	if err != nil {
		s.fail(ctx, &edifile.File{
			FileName:   name,
			FileType:   rec.File.FileType,
			Charset:    charset,
			SizeBytes:  rec.File.SizeBytes,
			RawContent: text,
			PayerID:    rec.File.PayerID,
		}, err)

		return nil, fmt.Errorf("store %s: %w", name, err)
	}

	return &Outcome{FileID: stored.File.ID, Charset: charset, Analysis: a}, nil
}

// attachLearnedPayer consults learned aliases when the directory found no payer.
func (s *Service) attachLearnedPayer(ctx context.Context, tx *x12.Transaction) {
	if tx.Payer != nil || s.payers == nil {
		return
	}

	p, err := s.payers.Suggest(ctx, tx.Metadata.Sender, tx.Metadata.Receiver)
	if err != nil {
		s.logger.Warn("failed to look up payer alias", "error", err)
		return
	}

	tx.Payer = p
}

func (s *Service) fail(ctx context.Context, f *edifile.File, cause error) {
	if err := s.files.RecordFailure(ctx, f, cause); err != nil {
		s.logger.Error("failed to record failed file", "name", f.FileName, "error", err)
	}
}

func payerID(p *x12.Payer) string {
	if p == nil {
		return ""
	}

	return p.ID
}
