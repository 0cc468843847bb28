package x12_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

const enrollment = `ISA*00*          *00*          *ZZ*SPONSOR01      *ZZ*BCBS           *250930*1200*^*00501*000000001*0*P*:
GS*BE*SPONSOR01*BCBS*20250930*1200*1*X*005010X220A1
ST*834*0001*005010X220A1
BGN*00*12456*20250930*1200****2
N1*P5*ACME CORP*FI*123456789
INS*Y*18*021*28*A***FT
NM1*IL*1*DOE*JOHN*A***34*123456789
SE*7*0001
GE*1*1
IEA*1*000000001`

func TestParser_Parse(t *testing.T) {
	p := x12.NewParser(x12.DefaultTables())

	tx := p.Parse(enrollment)

	assert.Equal(t, x12.Format834, tx.Type)
	require.Len(t, tx.Segments, 10)
	assert.Equal(t, 10, tx.Statistics.TotalSegments)

	assert.Equal(t, x12.Metadata{
		Sender:          "SPONSOR01",
		Receiver:        "BCBS",
		InterchangeDate: "250930",
		InterchangeTime: "1200",
		ControlNumber:   "000000001",
		VersionID:       "00501",
		TestIndicator:   "P",
	}, tx.Metadata)

	require.NotNil(t, tx.Payer)
	assert.Equal(t, "BCBS", tx.Payer.ID)
	assert.NotEmpty(t, tx.BusinessContext)

	assert.Equal(t, "Interchange Control Header", tx.Segments[0].Definition)
	assert.Equal(t, "Member Level Detail", tx.Segments[5].Definition)
	assert.Nil(t, tx.Segments[0].IsValid)
}

func TestParser_ShortInterchangeHeader(t *testing.T) {
	p := x12.NewParser(x12.DefaultTables())

	tx := p.Parse("ISA*00*          *00*          *ZZ*SENDER*ZZ*RECEIVER*250930*1200*^*00501*000000001\nIEA*1*000000001")

	assert.Equal(t, "SENDER", tx.Metadata.Sender)
	assert.Equal(t, "", tx.Metadata.ControlNumber)
}

func TestParser_NoInterchangeHeader(t *testing.T) {
	p := x12.NewParser(x12.DefaultTables())

	tx := p.Parse("ST*820*0001\nBPR*C*125000.00*C*ACH")

	assert.Equal(t, x12.Format820, tx.Type)
	assert.Equal(t, x12.Metadata{}, tx.Metadata)
}

func TestParser_UnknownHasNoContext(t *testing.T) {
	p := x12.NewParser(x12.DefaultTables())

	tx := p.Parse(sampleEnvelope)

	assert.Equal(t, x12.FormatUnknown, tx.Type)
	assert.Empty(t, tx.BusinessContext)
	assert.Equal(t, "000000001", tx.Metadata.ControlNumber)
}

func TestTables_Format(t *testing.T) {
	tables := x12.DefaultTables()

	assert.Equal(t,
		[]string{"ISA", "GS", "ST", "BGN", "N1", "INS", "NM1", "SE", "GE", "IEA"},
		tables.Format(x12.Format834).RequiredSegments,
	)
	assert.Empty(t, tables.Format(x12.FormatUnknown).RequiredSegments)
	assert.Equal(t, "INS", tables.Format(x12.Format834).EntityStart)
	assert.Equal(t, "BPR", tables.Format(x12.Format820).EntityStart)

	require.NotNil(t, tables.PayerByID("CIGNA"))
	assert.Nil(t, tables.PayerByID("NOPE"))
}
