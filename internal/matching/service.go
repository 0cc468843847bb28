package matching

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

var (
	ErrEmptyIdentifier = errors.New("empty identifier")
	ErrUnknownPayer    = errors.New("unknown payer")
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindPayer(ctx context.Context, identifier string) (string, error)
	SaveAlias(ctx context.Context, identifier, payerID string) error
}

// Service resolves trading-partner identifiers the static payer directory does not
// recognize, using aliases learned from earlier corrections.
type Service struct {
	repo   Repository
	tables x12.Tables
}

func NewService(repo Repository, tables x12.Tables) *Service {
	return &Service{repo: repo, tables: tables}
}

// Suggest returns the payer learned for the first identifier that has an alias.
// Returns nil if none match.
func (s *Service) Suggest(ctx context.Context, identifiers ...string) (*x12.Payer, error) {
	for _, ident := range identifiers {
		ident = strings.TrimSpace(ident)
		if ident == "" {
			continue
		}

		payerID, err := s.repo.FindPayer(ctx, ident)
		if err != nil {
			return nil, err
		}

		if payerID == "" {
			continue
		}

		if p := s.tables.PayerByID(payerID); p != nil {
			return p, nil
		}

		return &x12.Payer{ID: payerID, Name: payerID}, nil
	}

	return nil, nil
}

// Learn remembers that identifier belongs to the directory payer payerID.
func (s *Service) Learn(ctx context.Context, identifier, payerID string) error {
	identifier = strings.ToUpper(strings.TrimSpace(identifier))
	if identifier == "" {
		return ErrEmptyIdentifier
	}

	if s.tables.PayerByID(payerID) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPayer, payerID)
	}

	return s.repo.SaveAlias(ctx, identifier, payerID)
}

// Directory returns the static payer directory.
func (s *Service) Directory() []x12.Payer {
	return slices.Clone(s.tables.Payers)
}
