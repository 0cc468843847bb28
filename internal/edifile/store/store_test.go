package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile/store"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

var fileColumns = []string{
	"id", "file_name", "file_type", "status", "charset", "size_bytes", "raw_content", "payer_id", "created_at", "updated_at",
}

func newStore(t *testing.T) (*store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.New(db), mock
}

func TestStore_GetFile(t *testing.T) {
	id := uuid.New()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantType  *x12.FormatCode
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Typed",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM edi_files WHERE id = \\$1").
					WithArgs(id).
					WillReturnRows(sqlmock.NewRows(fileColumns).
						AddRow(id.String(), "a.edi", "834", "processed", "UTF-8", 120, "ISA*", "BCBS", now, now))
			},
			wantType: new(x12.Format834),
		},
		{
			name: "UnknownType",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM edi_files WHERE id = \\$1").
					WithArgs(id).
					WillReturnRows(sqlmock.NewRows(fileColumns).
						AddRow(id.String(), "b.edi", nil, "processed", "UTF-8", 10, "junk", "", now, now))
			},
		},
		{
			name: "NotFound",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT .* FROM edi_files").WillReturnError(sql.ErrNoRows)
			},
			wantErr: edifile.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			tt.setupMock(mock)

			f, err := s.GetFile(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, id, f.ID)
			assert.Equal(t, edifile.StatusProcessed, f.Status)
			assert.Equal(t, tt.wantType, f.FileType)
		})
	}
}

func TestStore_ListFiles(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()

	mock.ExpectQuery("FROM edi_files WHERE 1 = 1 AND status = \\$1 AND file_type = \\$2 ORDER BY created_at DESC").
		WithArgs(edifile.StatusFailed, "820").
		WillReturnRows(sqlmock.NewRows(fileColumns).
			AddRow(uuid.NewString(), "p.edi", "820", "failed", "UTF-8", 1, "x", "", now, now).
			AddRow(uuid.NewString(), "q.edi", "820", "failed", "UTF-8", 1, "y", "", now, now))

	files, err := s.ListFiles(context.Background(), edifile.ListFilter{
		Status:   new(edifile.StatusFailed),
		FileType: new("820"),
	})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestStore_GetTransaction(t *testing.T) {
	s, mock := newStore(t)
	fileID := uuid.New()

	mock.ExpectQuery("FROM edi_transactions").
		WithArgs(fileID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "file_id", "transaction_type", "control_number", "raw_segments", "parsed_data", "is_valid", "created_at",
		}).AddRow(
			uuid.NewString(), fileID.String(), "834", "000000001",
			[]byte(`[{"tag":"ST","elements":["834","0001"],"rawLine":"ST*834*0001","lineNumber":3}]`),
			[]byte(`{"sender":"SENDER"}`),
			true, time.Now(),
		))

	tx, err := s.GetTransaction(context.Background(), fileID)
	require.NoError(t, err)

	assert.Equal(t, x12.Format834, tx.TransactionType)
	require.Len(t, tx.RawSegments, 1)
	assert.Equal(t, "834", tx.RawSegments[0].Element(1))
	assert.Equal(t, 3, tx.RawSegments[0].LineNumber)
	assert.Equal(t, "SENDER", tx.ParsedData["sender"])
	assert.True(t, tx.IsValid)
}

func TestStore_ListErrors_Unresolved(t *testing.T) {
	s, mock := newStore(t)
	fileID := uuid.New()

	mock.ExpectQuery("FROM edi_errors\\s+WHERE 1 = 1 AND file_id = \\$1 AND NOT resolved").
		WithArgs(fileID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "file_id", "transaction_id", "error_type", "severity", "code", "message", "description",
			"suggestion", "segment_tag", "line_number", "resolved", "created_at", "resolved_at",
		}).AddRow(
			uuid.NewString(), fileID.String(), nil, "parsing", "critical", "processing-failed", "boom", "",
			"", "", 0, false, time.Now(), nil,
		))

	errs, err := s.ListErrors(context.Background(), edifile.ErrorFilter{FileID: &fileID, Unresolved: true})
	require.NoError(t, err)
	require.Len(t, errs, 1)

	assert.Nil(t, errs[0].TransactionID)
	assert.Equal(t, edifile.ErrorParsing, errs[0].ErrorType)
	assert.Nil(t, errs[0].ResolvedAt)
}

func TestStore_ResolveError(t *testing.T) {
	type testCase struct {
		name     string
		affected int64
		wantErr  error
	}

	tests := []testCase{
		{name: "Resolved", affected: 1},
		{name: "MissingOrAlreadyResolved", affected: 0, wantErr: edifile.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStore(t)
			id := uuid.New()

			mock.ExpectExec("UPDATE edi_errors").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := s.ResolveError(context.Background(), id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestStore_Ingest(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()
	fileID := uuid.New()
	txID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO edi_files").
		WithArgs("premium.edi", "820", edifile.StatusProcessed, "UTF-8", int64(42), "ISA*", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(fileID.String(), now, now))
	mock.ExpectQuery("INSERT INTO edi_transactions").
		WithArgs(fileID, "820", "000000001", sqlmock.AnyArg(), sqlmock.AnyArg(), false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(txID.String(), now))
	mock.ExpectQuery("INSERT INTO edi_payments \\(transaction_id, payment_amount, payment_date,").
		WithArgs(txID, "1500.50", sqlmock.AnyArg(), "TRACE1", "ACH", edifile.PaymentPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), now))
	mock.ExpectCommit()

	itx, err := s.BeginIngest(context.Background())
	require.NoError(t, err)

	f := &edifile.File{
		FileName:   "premium.edi",
		FileType:   new(x12.Format820),
		Status:     edifile.StatusProcessed,
		Charset:    "UTF-8",
		SizeBytes:  42,
		RawContent: "ISA*",
	}
	require.NoError(t, itx.CreateFile(context.Background(), f))
	assert.Equal(t, fileID, f.ID)

	tx := &edifile.Transaction{FileID: f.ID, TransactionType: x12.Format820, ControlNumber: "000000001"}
	require.NoError(t, itx.CreateTransaction(context.Background(), tx))
	assert.Equal(t, txID, tx.ID)

	p := &edifile.Payment{
		TransactionID: tx.ID,
		Amount:        decimal.RequireFromString("1500.5"),
		TraceNumber:   "TRACE1",
		Method:        "ACH",
		Status:        edifile.PaymentPending,
	}
	require.NoError(t, itx.CreatePayments(context.Background(), []*edifile.Payment{p}))

	require.NoError(t, itx.Commit())
}

func TestStore_IngestMembers(t *testing.T) {
	s, mock := newStore(t)
	now := time.Now()
	txID := uuid.New()
	dob := time.Date(1980, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO edi_members \\(transaction_id, member_id, first_name, middle_name, last_name, ssn, dob,").
		WithArgs(txID, "MBR001", "JOHN", "", "DOE", "123456789", &dob, "M", "", "", "", "", "", edifile.MemberActive).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.NewString(), now))
	mock.ExpectRollback()

	itx, err := s.BeginIngest(context.Background())
	require.NoError(t, err)

	m := &edifile.Member{
		TransactionID: txID,
		MemberID:      "MBR001",
		FirstName:     "JOHN",
		LastName:      "DOE",
		SSN:           "123456789",
		DateOfBirth:   &dob,
		Gender:        "M",
		Status:        edifile.MemberActive,
	}
	require.NoError(t, itx.CreateMembers(context.Background(), []*edifile.Member{m}))
	assert.NotEqual(t, uuid.Nil, m.ID)

	require.NoError(t, itx.Rollback())
}

func TestStore_ListPayments(t *testing.T) {
	s, mock := newStore(t)
	txID := uuid.New()

	mock.ExpectQuery("SELECT id, transaction_id, payment_amount, payment_date, .* FROM edi_payments").
		WithArgs(txID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "transaction_id", "payment_amount", "payment_date", "trace_number", "method", "status", "created_at",
		}).AddRow(uuid.NewString(), txID.String(), "12500000000.00", nil, "TRACE1", "ACH", "pending", time.Now()))

	payments, err := s.ListPayments(context.Background(), txID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "12500000000.00", payments[0].Amount.StringFixed(2))
	assert.Equal(t, edifile.PaymentPending, payments[0].Status)
}
