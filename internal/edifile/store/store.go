package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectFileColumns = `
	id, file_name, file_type, status, charset, size_bytes, raw_content, payer_id, created_at, updated_at
`

// scanFile expects selectFileColumns order.
func scanFile(s scanner) (*edifile.File, error) {
	var f edifile.File

	var fileType sql.NullString

	var status string

	if err := s.Scan(
		&f.ID, &f.FileName, &fileType, &status, &f.Charset, &f.SizeBytes, &f.RawContent, &f.PayerID,
		&f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}

	f.Status = edifile.Status(status)

	if fileType.Valid {
		f.FileType = new(x12.FormatCode(fileType.String))
	}

	return &f, nil
}

func (s *Store) GetFile(ctx context.Context, id uuid.UUID) (*edifile.File, error) {
	query := `SELECT ` + selectFileColumns + ` FROM edi_files WHERE id = $1`

	f, err := scanFile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, edifile.ErrNotFound
		}

		return nil, fmt.Errorf("getting file: %w", err)
	}

	return f, nil
}

func (s *Store) ListFiles(ctx context.Context, filter edifile.ListFilter) ([]*edifile.File, error) {
	query := `SELECT ` + selectFileColumns + ` FROM edi_files WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.FileType != nil {
		query += fmt.Sprintf(" AND file_type = $%d", argIdx)

		args = append(args, *filter.FileType)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var files []*edifile.File

	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}

		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating file rows: %w", err)
	}

	return files, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status edifile.Status) error {
	query := `
		UPDATE edi_files
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return edifile.ErrNotFound
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, fileID uuid.UUID) (*edifile.Transaction, error) {
	query := `
		SELECT id, file_id, transaction_type, control_number, raw_segments, parsed_data, is_valid, created_at
		FROM edi_transactions
		WHERE file_id = $1
	`

	var (
		tx       edifile.Transaction
		txType   string
		segments []byte
		parsed   []byte
	)

	err := s.db.QueryRowContext(ctx, query, fileID).Scan(
		&tx.ID, &tx.FileID, &txType, &tx.ControlNumber, &segments, &parsed, &tx.IsValid, &tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, edifile.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	tx.TransactionType = x12.FormatCode(txType)

	if err := json.Unmarshal(segments, &tx.RawSegments); err != nil {
		return nil, fmt.Errorf("decoding raw segments: %w", err)
	}

	if err := json.Unmarshal(parsed, &tx.ParsedData); err != nil {
		return nil, fmt.Errorf("decoding parsed data: %w", err)
	}

	return &tx, nil
}

func (s *Store) ListMembers(ctx context.Context, transactionID uuid.UUID) ([]*edifile.Member, error) {
	query := `
		SELECT id, transaction_id, member_id, first_name, middle_name, last_name, ssn, dob, gender,
			address1, address2, city, state, postal_code, status, created_at
		FROM edi_members
		WHERE transaction_id = $1
		ORDER BY created_at ASC, last_name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*edifile.Member

	for rows.Next() {
		var (
			m      edifile.Member
			status string
		)

		if err := rows.Scan(
			&m.ID, &m.TransactionID, &m.MemberID, &m.FirstName, &m.MiddleName, &m.LastName, &m.SSN,
			&m.DateOfBirth, &m.Gender, &m.Address1, &m.Address2, &m.City, &m.State, &m.PostalCode,
			&status, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		m.Status = edifile.MemberStatus(status)
		members = append(members, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

func (s *Store) ListPayments(ctx context.Context, transactionID uuid.UUID) ([]*edifile.Payment, error) {
	query := `
		SELECT id, transaction_id, payment_amount, payment_date, trace_number, method, status, created_at
		FROM edi_payments
		WHERE transaction_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []*edifile.Payment

	for rows.Next() {
		var (
			p      edifile.Payment
			status string
		)

		if err := rows.Scan(
			&p.ID, &p.TransactionID, &p.Amount, &p.PaymentDate, &p.TraceNumber, &p.Method, &status, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		p.Status = edifile.PaymentStatus(status)
		payments = append(payments, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating payment rows: %w", err)
	}

	return payments, nil
}

func (s *Store) ListErrors(ctx context.Context, filter edifile.ErrorFilter) ([]*edifile.Error, error) {
	query := `
		SELECT id, file_id, transaction_id, error_type, severity, code, message, description, suggestion,
			segment_tag, line_number, resolved, created_at, resolved_at
		FROM edi_errors
		WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.FileID != nil {
		query += fmt.Sprintf(" AND file_id = $%d", argIdx)

		args = append(args, *filter.FileID)
		argIdx++
	}

	if filter.Unresolved {
		query += " AND NOT resolved"
	}

	query += " ORDER BY line_number ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing errors: %w", err)
	}
	defer rows.Close()

	var out []*edifile.Error

	for rows.Next() {
		var (
			e         edifile.Error
			errorType string
			severity  string
		)

		if err := rows.Scan(
			&e.ID, &e.FileID, &e.TransactionID, &errorType, &severity, &e.Code, &e.Message, &e.Description,
			&e.Suggestion, &e.SegmentTag, &e.LineNumber, &e.Resolved, &e.CreatedAt, &e.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning error: %w", err)
		}

		e.ErrorType = edifile.ErrorType(errorType)
		e.Severity = edifile.Severity(severity)
		out = append(out, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating error rows: %w", err)
	}

	return out, nil
}

func (s *Store) ResolveError(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE edi_errors
		SET resolved = TRUE, resolved_at = NOW()
		WHERE id = $1 AND NOT resolved
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("resolving error: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return edifile.ErrNotFound
	}

	return nil
}

type ingestTx struct {
	tx *sql.Tx
}

func (s *Store) BeginIngest(ctx context.Context) (edifile.IngestTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning ingest tx: %w", err)
	}

	return &ingestTx{tx: dbTx}, nil
}

func (itx *ingestTx) Commit() error   { return itx.tx.Commit() }
func (itx *ingestTx) Rollback() error { return itx.tx.Rollback() }

func (itx *ingestTx) CreateFile(ctx context.Context, f *edifile.File) error {
	query := `
		INSERT INTO edi_files (file_name, file_type, status, charset, size_bytes, raw_content, payer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var fileType *string
	if f.FileType != nil {
		fileType = new(string(*f.FileType))
	}

	err := itx.tx.QueryRowContext(ctx, query,
		f.FileName,
		fileType,
		f.Status,
		f.Charset,
		f.SizeBytes,
		f.RawContent,
		f.PayerID,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	return nil
}

func (itx *ingestTx) CreateTransaction(ctx context.Context, t *edifile.Transaction) error {
	segments, err := json.Marshal(t.RawSegments)
	if err != nil {
		return fmt.Errorf("encoding raw segments: %w", err)
	}

	parsed, err := json.Marshal(t.ParsedData)
	if err != nil {
		return fmt.Errorf("encoding parsed data: %w", err)
	}

	query := `
		INSERT INTO edi_transactions (file_id, transaction_type, control_number, raw_segments, parsed_data, is_valid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = itx.tx.QueryRowContext(ctx, query,
		t.FileID,
		string(t.TransactionType),
		t.ControlNumber,
		segments,
		parsed,
		t.IsValid,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (itx *ingestTx) CreateMembers(ctx context.Context, members []*edifile.Member) error {
	query := `
		INSERT INTO edi_members (transaction_id, member_id, first_name, middle_name, last_name, ssn, dob,
			gender, address1, address2, city, state, postal_code, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		RETURNING id, created_at
	`

	for _, m := range members {
		err := itx.tx.QueryRowContext(ctx, query,
			m.TransactionID,
			m.MemberID,
			m.FirstName,
			m.MiddleName,
			m.LastName,
			m.SSN,
			m.DateOfBirth,
			m.Gender,
			m.Address1,
			m.Address2,
			m.City,
			m.State,
			m.PostalCode,
			m.Status,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating member: %w", err)
		}
	}

	return nil
}

func (itx *ingestTx) CreatePayments(ctx context.Context, payments []*edifile.Payment) error {
	query := `
		INSERT INTO edi_payments (transaction_id, payment_amount, payment_date, trace_number, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	for _, p := range payments {
		err := itx.tx.QueryRowContext(ctx, query,
			p.TransactionID,
			p.Amount.StringFixed(2),
			p.PaymentDate,
			p.TraceNumber,
			p.Method,
			p.Status,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating payment: %w", err)
		}
	}

	return nil
}

func (itx *ingestTx) CreateErrors(ctx context.Context, errs []*edifile.Error) error {
	query := `
		INSERT INTO edi_errors (file_id, transaction_id, error_type, severity, code, message, description, suggestion,
			segment_tag, line_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	for _, e := range errs {
		err := itx.tx.QueryRowContext(ctx, query,
			e.FileID,
			e.TransactionID,
			e.ErrorType,
			e.Severity,
			e.Code,
			e.Message,
			e.Description,
			e.Suggestion,
			e.SegmentTag,
			e.LineNumber,
		).Scan(&e.ID, &e.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating error: %w", err)
		}
	}

	return nil
}
