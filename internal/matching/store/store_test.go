package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/matching/store"
)

func TestStore_FindPayer(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      string
	}

	tests := []testCase{
		{
			name: "Match",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT payer_id\\s+FROM payer_aliases").
					WithArgs("HCSC123").
					WillReturnRows(sqlmock.NewRows([]string{"payer_id"}).AddRow("BCBS"))
			},
			want: "BCBS",
		},
		{
			name: "NoMatch",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT payer_id\\s+FROM payer_aliases").
					WithArgs("HCSC123").
					WillReturnError(sql.ErrNoRows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.setupMock(mock)

			got, err := store.New(db).FindPayer(context.Background(), "HCSC123")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestStore_SaveAlias(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO payer_aliases").
		WithArgs("HCSC123", "BCBS").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.New(db).SaveAlias(context.Background(), "HCSC123", "BCBS"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
