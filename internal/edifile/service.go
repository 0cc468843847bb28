package edifile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=edifile
type Repository interface {
	GetFile(ctx context.Context, id uuid.UUID) (*File, error)
	ListFiles(ctx context.Context, filter ListFilter) ([]*File, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	GetTransaction(ctx context.Context, fileID uuid.UUID) (*Transaction, error)
	ListMembers(ctx context.Context, transactionID uuid.UUID) ([]*Member, error)
	ListPayments(ctx context.Context, transactionID uuid.UUID) ([]*Payment, error)

	ListErrors(ctx context.Context, filter ErrorFilter) ([]*Error, error)
	ResolveError(ctx context.Context, id uuid.UUID) error

	BeginIngest(ctx context.Context) (IngestTx, error)
}

type IngestTx interface {
	CreateFile(ctx context.Context, f *File) error
	CreateTransaction(ctx context.Context, t *Transaction) error
	CreateMembers(ctx context.Context, members []*Member) error
	CreatePayments(ctx context.Context, payments []*Payment) error
	CreateErrors(ctx context.Context, errs []*Error) error
	Commit() error
	Rollback() error
}

type ListFilter struct {
	Status    *Status
	FileType  *string
	StartDate *time.Time
	EndDate   *time.Time
}

type ErrorFilter struct {
	FileID     *uuid.UUID
	Unresolved bool
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Ingest stores a file with its transaction, members, payments and errors in one
// database transaction. Child records are linked to the generated ids.
func (s *Service) Ingest(ctx context.Context, rec *Record) (*Record, error) {
	if rec.File == nil {
		return nil, errors.New("ingest: missing file")
	}

	itx, err := s.repo.BeginIngest(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin ingest: %w", err)
	}
	defer itx.Rollback()

	if rec.File.Status == "" {
		rec.File.Status = StatusProcessed
	}

	if err := itx.CreateFile(ctx, rec.File); err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	var txID *uuid.UUID

	if rec.Transaction != nil {
		rec.Transaction.FileID = rec.File.ID
		if err := itx.CreateTransaction(ctx, rec.Transaction); err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}

		txID = &rec.Transaction.ID

		for _, m := range rec.Members {
			m.TransactionID = rec.Transaction.ID
		}

		for _, p := range rec.Payments {
			p.TransactionID = rec.Transaction.ID
		}
	}

	if len(rec.Members) > 0 {
		if err := itx.CreateMembers(ctx, rec.Members); err != nil {
			return nil, fmt.Errorf("create members: %w", err)
		}
	}

	if len(rec.Payments) > 0 {
		if err := itx.CreatePayments(ctx, rec.Payments); err != nil {
			return nil, fmt.Errorf("create payments: %w", err)
		}
	}

	for _, e := range rec.Errors {
		e.FileID = rec.File.ID
		e.TransactionID = txID
	}

	if len(rec.Errors) > 0 {
		if err := itx.CreateErrors(ctx, rec.Errors); err != nil {
			return nil, fmt.Errorf("create errors: %w", err)
		}
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ingest: %w", err)
	}

	return rec, nil
}

// RecordFailure stores a file that could not be processed, with one parsing error
// describing the cause.
func (s *Service) RecordFailure(ctx context.Context, f *File, cause error) error {
	f.Status = StatusFailed

	_, err := s.Ingest(ctx, &Record{
		File: f,
		Errors: []*Error{{
			ErrorType: ErrorParsing,
			Severity:  SeverityCritical,
			Code:      "processing-failed",
			Message:   cause.Error(),
		}},
	})

	return err
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*File, error) {
	return s.repo.ListFiles(ctx, filter)
}

// Get loads a file with its transaction, members and payments. Files that failed
// before parsing have no transaction.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	f, err := s.repo.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	d := &Detail{File: f}

	tx, err := s.repo.GetTransaction(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return d, nil
	}

	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}

	d.Transaction = tx

	if d.Members, err = s.repo.ListMembers(ctx, tx.ID); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	if d.Payments, err = s.repo.ListPayments(ctx, tx.ID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return d, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) ListErrors(ctx context.Context, filter ErrorFilter) ([]*Error, error) {
	return s.repo.ListErrors(ctx, filter)
}

func (s *Service) ResolveError(ctx context.Context, id uuid.UUID) error {
	return s.repo.ResolveError(ctx, id)
}
