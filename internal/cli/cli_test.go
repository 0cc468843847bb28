package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/cli"
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/export"
)

const enrollment = `ISA*00*          *00*          *ZZ*SPONSOR01      *ZZ*BCBS           *250930*1200*^*00501*000000042*0*T*:
GS*BE*SPONSOR01*BCBS*20250930*1200*7*X*005010X220A1
ST*834*0001*005010X220A1
BGN*00*12456*20250930*1200****4
N1*P5*ACME CORP*FI*123456789
INS*Y*18*021*28*A***FT
REF*0F*MBR001
NM1*IL*1*DOE*JOHN
DMG*D8*19800115*M
SE*8*0001
GE*1*7
IEA*1*000000042`

func writeEDI(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return buf.String(), err
}

func TestHelp(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"inspect", "validate", "extract", "roundtrip", "compare", "token"} {
		assert.Contains(t, out, sub)
	}
}

func TestInspect(t *testing.T) {
	path := writeEDI(t, "enrollment.834", enrollment)

	out, err := run(t, "inspect", path)
	require.NoError(t, err)

	assert.Contains(t, out, "834")
	assert.Contains(t, out, "Blue Cross Blue Shield (BCBS)")
	assert.Contains(t, out, "Individual or Organizational Name")
}

func TestValidate(t *testing.T) {
	valid := writeEDI(t, "a.834", enrollment)
	broken := writeEDI(t, "b.834", strings.Replace(enrollment, "IEA*1*000000042", "IEA*1*000000043", 1))

	type testCase struct {
		name    string
		args    []string
		wantErr error
		want    []string
	}

	tests := []testCase{
		{
			name: "AllValid",
			args: []string{"validate", valid, valid},
			want: []string{"valid"},
		},
		{
			name:    "OneInvalid",
			args:    []string{"validate", "-v", valid, broken},
			wantErr: cli.ErrInvalid,
			want:    []string{"invalid", "control-number"},
		},
		{
			name: "ZeroJobsUsesEveryCPU",
			args: []string{"validate", "-j", "0", valid, valid},
			want: []string{"valid"},
		},
		{
			name:    "MissingFile",
			args:    []string{"validate", filepath.Join(t.TempDir(), "nope.834")},
			wantErr: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestExtract_Roster(t *testing.T) {
	path := writeEDI(t, "enrollment.834", enrollment)
	dir := t.TempDir()
	xlsxPath := filepath.Join(dir, "roster.xlsx")
	parquetPath := filepath.Join(dir, "roster.parquet")

	out, err := run(t, "extract", path, "--xlsx", xlsxPath, "--parquet", parquetPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"memberId": "MBR001"`)

	rows, err := parquet.ReadFile[export.MemberRow](parquetPath)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "enrollment.834", rows[0].FileName)
	assert.Equal(t, "DOE", rows[0].LastName)

	f, err := excelize.OpenFile(xlsxPath)
	require.NoError(t, err)
	defer f.Close()

	cell, err := f.GetCellValue("Members", "C2")
	require.NoError(t, err)
	assert.Equal(t, "MBR001", cell)
}

func TestRoundtrip_Check(t *testing.T) {
	path := writeEDI(t, "enrollment.834", enrollment)

	out, err := run(t, "roundtrip", path, "--check")
	require.NoError(t, err)

	assert.Contains(t, out, "ST*834*")
	assert.Contains(t, out, "NM1*IL*1*DOE*JOHN")
}

func TestCompare(t *testing.T) {
	base := writeEDI(t, "base.834", enrollment)
	other := writeEDI(t, "other.834", strings.Replace(enrollment, "NM1*IL*1*DOE*JOHN", "NM1*IL*1*DOE*JONATHAN", 1))

	out, err := run(t, "compare", base, base)
	require.NoError(t, err)
	assert.Contains(t, out, "no member or payment differences")

	out, err = run(t, "compare", base, other)
	require.NoError(t, err)
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "firstName")
}

func TestToken(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")

	_, err := run(t, "token")
	require.Error(t, err)

	t.Setenv("AUTH_SECRET", "s3cret")

	out, err := run(t, "token", "--subject", "ops")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}
