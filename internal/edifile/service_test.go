package edifile_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/edifile"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

func newRecord() *edifile.Record {
	return &edifile.Record{
		File:        &edifile.File{FileName: "enrollment.edi", FileType: new(x12.Format834)},
		Transaction: &edifile.Transaction{TransactionType: x12.Format834, ControlNumber: "000000001"},
		Members:     []*edifile.Member{{MemberID: "M1"}, {MemberID: "M2"}},
		Errors:      []*edifile.Error{{ErrorType: edifile.ErrorValidation, Severity: edifile.SeverityMedium}},
	}
}

func TestService_Ingest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := edifile.NewMockRepository(ctrl)
	itx := edifile.NewMockIngestTx(ctrl)
	svc := edifile.NewService(repo)

	fileID := uuid.New()
	txID := uuid.New()

	repo.EXPECT().BeginIngest(gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *edifile.File) error {
		f.ID = fileID
		return nil
	})
	itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, tx *edifile.Transaction) error {
		assert.Equal(t, fileID, tx.FileID)
		tx.ID = txID
		return nil
	})
	itx.EXPECT().CreateMembers(gomock.Any(), gomock.Len(2)).Return(nil)
	itx.EXPECT().CreateErrors(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	rec, err := svc.Ingest(context.Background(), newRecord())
	require.NoError(t, err)

	assert.Equal(t, edifile.StatusProcessed, rec.File.Status)
	assert.Equal(t, txID, rec.Members[0].TransactionID)
	assert.Equal(t, txID, rec.Members[1].TransactionID)
	assert.Equal(t, fileID, rec.Errors[0].FileID)
	require.NotNil(t, rec.Errors[0].TransactionID)
	assert.Equal(t, txID, *rec.Errors[0].TransactionID)
}

func TestService_Ingest_Errors(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(repo *edifile.MockRepository, itx *edifile.MockIngestTx)
		wantErr   string
	}

	tests := []testCase{
		{
			name: "BeginFails",
			setupMock: func(repo *edifile.MockRepository, _ *edifile.MockIngestTx) {
				repo.EXPECT().BeginIngest(gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: "begin ingest",
		},
		{
			name: "CreateFileFails",
			setupMock: func(repo *edifile.MockRepository, itx *edifile.MockIngestTx) {
				repo.EXPECT().BeginIngest(gomock.Any()).Return(itx, nil)
				itx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).Return(errors.New("constraint"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: "create file",
		},
		{
			name: "CreateMembersFails",
			setupMock: func(repo *edifile.MockRepository, itx *edifile.MockIngestTx) {
				repo.EXPECT().BeginIngest(gomock.Any()).Return(itx, nil)
				itx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().CreateMembers(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: "create members",
		},
		{
			name: "CommitFails",
			setupMock: func(repo *edifile.MockRepository, itx *edifile.MockIngestTx) {
				repo.EXPECT().BeginIngest(gomock.Any()).Return(itx, nil)
				itx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().CreateMembers(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().CreateErrors(gomock.Any(), gomock.Any()).Return(nil)
				itx.EXPECT().Commit().Return(errors.New("serialization"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: "commit ingest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := edifile.NewMockRepository(ctrl)
			itx := edifile.NewMockIngestTx(ctrl)
			tt.setupMock(repo, itx)

			_, err := edifile.NewService(repo).Ingest(context.Background(), newRecord())
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestService_RecordFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := edifile.NewMockRepository(ctrl)
	itx := edifile.NewMockIngestTx(ctrl)
	svc := edifile.NewService(repo)

	repo.EXPECT().BeginIngest(gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateFile(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, f *edifile.File) error {
		assert.Equal(t, edifile.StatusFailed, f.Status)
		return nil
	})
	itx.EXPECT().CreateErrors(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, errs []*edifile.Error) error {
		require.Len(t, errs, 1)
		assert.Equal(t, edifile.ErrorParsing, errs[0].ErrorType)
		assert.Nil(t, errs[0].TransactionID)
		assert.Equal(t, "content exceeds size limit", errs[0].Message)
		return nil
	})
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	err := svc.RecordFailure(context.Background(), &edifile.File{FileName: "big.edi"}, errors.New("content exceeds size limit"))
	require.NoError(t, err)
}

func TestService_Get(t *testing.T) {
	id := uuid.New()
	txID := uuid.New()

	type testCase struct {
		name        string
		setupMock   func(m *edifile.MockRepository)
		wantTx      bool
		wantMembers int
		wantErr     bool
	}

	tests := []testCase{
		{
			name: "WithTransaction",
			setupMock: func(m *edifile.MockRepository) {
				m.EXPECT().GetFile(gomock.Any(), id).Return(&edifile.File{ID: id}, nil)
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(&edifile.Transaction{ID: txID}, nil)
				m.EXPECT().ListMembers(gomock.Any(), txID).Return([]*edifile.Member{{}, {}, {}}, nil)
				m.EXPECT().ListPayments(gomock.Any(), txID).Return(nil, nil)
			},
			wantTx:      true,
			wantMembers: 3,
		},
		{
			name: "FailedFileWithoutTransaction",
			setupMock: func(m *edifile.MockRepository) {
				m.EXPECT().GetFile(gomock.Any(), id).Return(&edifile.File{ID: id, Status: edifile.StatusFailed}, nil)
				m.EXPECT().GetTransaction(gomock.Any(), id).Return(nil, edifile.ErrNotFound)
			},
			wantTx: false,
		},
		{
			name: "NotFound",
			setupMock: func(m *edifile.MockRepository) {
				m.EXPECT().GetFile(gomock.Any(), id).Return(nil, edifile.ErrNotFound)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := edifile.NewMockRepository(ctrl)
			tt.setupMock(repo)

			got, err := edifile.NewService(repo).Get(context.Background(), id)
			if tt.wantErr {
				assert.ErrorIs(t, err, edifile.ErrNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTx, got.Transaction != nil)
			assert.Len(t, got.Members, tt.wantMembers)
		})
	}
}

func TestService_UpdateStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := edifile.NewMockRepository(ctrl)
	svc := edifile.NewService(repo)
	id := uuid.New()

	repo.EXPECT().UpdateStatus(gomock.Any(), id, edifile.StatusProcessing).Return(nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), id, edifile.StatusProcessing))

	err := svc.UpdateStatus(context.Background(), id, edifile.Status("archived"))
	assert.ErrorIs(t, err, edifile.ErrInvalidStatus)
}
