package x12_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

const sampleEnvelope = "ISA*00*          *00*          *ZZ*SENDER*ZZ*RECEIVER*250930*1200*^*00501*000000001*0*P*:\nIEA*1*000000001"

func TestDetector_DetectFormat(t *testing.T) {
	type args struct {
		raw string
	}

	type testCase struct {
		name string
		args args
		want x12.FormatCode
	}

	tests := []testCase{
		{
			name: "TransactionSetHeader",
			args: args{raw: "ISA*00\nGS*BE\nST*834*0001\nSE*2*0001"},
			want: x12.Format834,
		},
		{
			name: "FirstSupportedHeaderWins",
			args: args{raw: "ST*123*0001\nST*820*0002\nST*834*0003"},
			want: x12.Format820,
		},
		{
			name: "HeaderCodeWithSpaces",
			args: args{raw: "ST* 999 *0001"},
			want: x12.Format999,
		},
		{
			name: "FallbackEnrollmentMarkers",
			args: args{raw: "BGN*00*1\nINS*Y*18"},
			want: x12.Format834,
		},
		{
			name: "FallbackIsCaseInsensitive",
			args: args{raw: "bpr*C*100\nrmr*IV*1"},
			want: x12.Format820,
		},
		{
			name: "FallbackOrderFirstPairWins",
			args: args{raw: "EQ*30\nEB*1\nHL*1"},
			want: x12.Format270,
		},
		{
			name: "FallbackNeedsBothMarkers",
			args: args{raw: "BPR*C*100"},
			want: x12.FormatUnknown,
		},
		{
			name: "UnsupportedHeaderFallsBack",
			args: args{raw: "ST*123*0001\nCLM*1*100\nHI*ABK:R51"},
			want: x12.Format837,
		},
		{
			name: "EnvelopeOnly",
			args: args{raw: sampleEnvelope},
			want: x12.FormatUnknown,
		},
		{
			name: "Empty",
			args: args{raw: ""},
			want: x12.FormatUnknown,
		},
	}

	d := x12.NewDetector(x12.DefaultTables())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.DetectFormatText(tt.args.raw))
			assert.Equal(t, tt.want, d.DetectFormat(x12.Tokenize(tt.args.raw)))
		})
	}
}

func TestDetector_DetectFormatIsDeterministic(t *testing.T) {
	d := x12.NewDetector(x12.DefaultTables())
	raw := "CLP*1*1\nSVC*HC:99213\nEQ*30\nHL*1"

	first := d.DetectFormatText(raw)
	for range 10 {
		assert.Equal(t, first, d.DetectFormatText(raw))
	}
}

func TestDetector_SubstitutedTables(t *testing.T) {
	tables := x12.Tables{
		Formats: []x12.Format{{Code: x12.Format850, Markers: [2]string{"foo*", "bar*"}}},
	}
	d := x12.NewDetector(tables)

	assert.Equal(t, x12.Format850, d.DetectFormatText("FOO*1\nBAR*2"))
	assert.Equal(t, x12.FormatUnknown, d.DetectFormatText("ST*834*0001"))
}

func TestDetector_IdentifyPayer(t *testing.T) {
	type args struct {
		raw string
	}

	type testCase struct {
		name   string
		args   args
		wantID string
	}

	tests := []testCase{
		{
			name:   "ReceiverIdentifier",
			args:   args{raw: "ISA*00*          *00*          *ZZ*SPONSOR01      *ZZ*BCBS           *250930*1200*^*00501*000000001*0*P*:"},
			wantID: "BCBS",
		},
		{
			name:   "SenderContainsIdentifier",
			args:   args{raw: "ISA*00*          *00*          *ZZ*AETNAHEALTH    *ZZ*ACME           *250930*1200*^*00501*000000001*0*P*:"},
			wantID: "AETNA",
		},
		{
			name:   "EntityNameFallback",
			args:   args{raw: sampleEnvelope + "\nN1*P5*ACME CORP*FI*123456789\nN1*IN*Kaiser Permanente*FI*999"},
			wantID: "KAISER",
		},
		{
			name:   "EntityIdentifier",
			args:   args{raw: "N1*IN*SOME PLAN*XV*87726"},
			wantID: "UHC",
		},
		{
			name:   "CandidateInsideName",
			args:   args{raw: "N1*IN*Humana"},
			wantID: "HUMANA",
		},
		{
			name:   "Unattributed",
			args:   args{raw: sampleEnvelope},
			wantID: "",
		},
		{
			name:   "ShortValuesIgnored",
			args:   args{raw: "N1*IN*A*FI*1"},
			wantID: "",
		},
	}

	p := x12.NewParser(x12.DefaultTables())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := p.Parse(tt.args.raw)
			payer := p.Detector().IdentifyPayer(tx)

			if tt.wantID == "" {
				assert.Nil(t, payer)
				return
			}

			require.NotNil(t, payer)
			assert.Equal(t, tt.wantID, payer.ID)
		})
	}
}

func TestDetector_IdentifyPayerNil(t *testing.T) {
	d := x12.NewDetector(x12.DefaultTables())
	assert.Nil(t, d.IdentifyPayer(nil))
}

func TestLoadPayerDirectory(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		doc := `payers:
  - id: ACME
    name: Acme Health
    identifiers: [ACMEH, "12345"]
    requirements:
      - Member id in REF*0F
`
		payers, err := x12.LoadPayerDirectory(strings.NewReader(doc))
		require.NoError(t, err)
		require.Len(t, payers, 1)
		assert.Equal(t, "Acme Health", payers[0].Name)
		assert.Equal(t, []string{"ACMEH", "12345"}, payers[0].Identifiers)

		d := x12.NewDetector(x12.DefaultTables().WithPayers(payers))
		tx := x12.NewParser(x12.DefaultTables()).Parse("N1*IN*ACMEH PLAN")
		payer := d.IdentifyPayer(tx)
		require.NotNil(t, payer)
		assert.Equal(t, "ACME", payer.ID)
	})

	t.Run("MissingID", func(t *testing.T) {
		_, err := x12.LoadPayerDirectory(strings.NewReader("payers:\n  - name: x\n"))
		assert.ErrorContains(t, err, "missing id")
	})

	t.Run("DuplicateID", func(t *testing.T) {
		_, err := x12.LoadPayerDirectory(strings.NewReader("payers:\n  - id: A1\n  - id: A1\n"))
		assert.ErrorContains(t, err, "duplicate id")
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := x12.LoadPayerDirectory(strings.NewReader("payers:\n  - id: A1\n    color: red\n"))
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := x12.LoadPayerDirectory(strings.NewReader(""))
		assert.Error(t, err)
	})
}
