package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// ErrNoTransaction is returned when a stored file failed before it was parsed.
var ErrNoTransaction = errors.New("file has no parsed transaction")

type Format string

const (
	FormatX12     Format = "x12"
	FormatJSON    Format = "json"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

func (f Format) Valid() bool {
	switch f {
	case FormatX12, FormatJSON, FormatXLSX, FormatParquet:
		return true
	}

	return false
}

// Source is the read side of the stored files.
type Source interface {
	List(ctx context.Context, filter edifile.ListFilter) ([]*edifile.File, error)
	Get(ctx context.Context, id uuid.UUID) (*edifile.Detail, error)
}

// Item is one exported file and where its output was written. Path is empty when
// the file had nothing to export.
type Item struct {
	File     *edifile.File
	Path     string
	Members  int
	Payments int
}

type Service struct {
	files     Source
	extractor *extract.Extractor
}

func NewService(files Source, tables x12.Tables) *Service {
	return &Service{files: files, extractor: extract.New(tables)}
}

// X12 rebuilds the X12 text of a stored file from its extracted data.
func (s *Service) X12(ctx context.Context, id uuid.UUID) (string, error) {
	d, err := s.files.Get(ctx, id)
	if err != nil {
		return "", err
	}

	return s.reconstruct(d)
}

func (s *Service) reconstruct(d *edifile.Detail) (string, error) {
	if d.Transaction == nil {
		return "", ErrNoTransaction
	}

	tx := &x12.Transaction{
		Type:     d.Transaction.TransactionType,
		Segments: d.Transaction.RawSegments,
	}

	return extract.ToSegments(s.extractor.Extract(tx)), nil
}

// Export writes the files matching filter to outputDir. x12 and json produce one
// output per file; xlsx and parquet produce a single roster across all files.
func (s *Service) Export(ctx context.Context, filter edifile.ListFilter, outputDir string, format Format) ([]Item, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	files, err := s.files.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	items := make([]Item, 0, len(files))

	var (
		members  []MemberRow
		payments []PaymentRow
	)

	for _, f := range files {
		d, err := s.files.Get(ctx, f.ID)
		if err != nil {
			return nil, fmt.Errorf("loading file %s: %w", f.ID, err)
		}

		item := Item{File: d.File, Members: len(d.Members), Payments: len(d.Payments)}

		switch format {
		case FormatX12:
			item.Path, err = s.writeX12(d, outputDir)
		case FormatJSON:
			item.Path, err = writeJSON(d, outputDir)
		default:
			m, p := Rows(d)
			members = append(members, m...)
			payments = append(payments, p...)
		}

		if err != nil {
			return nil, fmt.Errorf("exporting file %s: %w", f.ID, err)
		}

		items = append(items, item)
	}

	if format == FormatXLSX || format == FormatParquet {
		path, err := writeRoster(outputDir, format, members, payments)
		if err != nil {
			return nil, err
		}

		for i := range items {
			if items[i].Members+items[i].Payments > 0 {
				items[i].Path = path
			}
		}
	}

	return items, nil
}

func (s *Service) writeX12(d *edifile.Detail, dir string) (string, error) {
	text, err := s.reconstruct(d)
	if errors.Is(err, ErrNoTransaction) {
		return "", nil
	}

	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, baseName(d.File)+".x12")

	return path, os.WriteFile(path, []byte(text), 0o644)
}

func writeJSON(d *edifile.Detail, dir string) (string, error) {
	path := filepath.Join(dir, baseName(d.File)+".json")

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding detail: %w", err)
	}

	return path, os.WriteFile(path, data, 0o644)
}

func writeRoster(dir string, format Format, members []MemberRow, payments []PaymentRow) (string, error) {
	path := filepath.Join(dir, "roster."+string(format))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating roster: %w", err)
	}
	defer out.Close()

	var write func(io.Writer) error

	if format == FormatXLSX {
		write = func(w io.Writer) error { return WriteXLSX(w, members, payments) }
	} else {
		write = func(w io.Writer) error { return WriteParquet(w, members) }
	}

	if err := write(out); err != nil {
		return "", err
	}

	return path, out.Close()
}

// baseName makes a file-system safe name from the uploaded name and the id.
func baseName(f *edifile.File) string {
	name := strings.TrimSuffix(filepath.Base(f.FileName), filepath.Ext(f.FileName))

	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, name)

	return safe + "_" + f.ID.String()[:8]
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(rosterDate)
}

// Summary renders one line per exported item.
func Summary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		fileType := "unknown"
		if item.File.FileType != nil {
			fileType = string(*item.File.FileType)
		}

		output := "not exported"
		if item.Path != "" {
			output = filepath.Base(item.Path)
		}

		sb.WriteString(fmt.Sprintf("* %s | %s | %s | %s | %d members | %d payments | %s\n",
			item.File.CreatedAt.Format(rosterDate), item.File.FileName, fileType, item.File.Status,
			item.Members, item.Payments, output))
	}

	return sb.String()
}
