package x12

// FormatCode identifies an X12 transaction set (the ST01 value).
type FormatCode string

const (
	Format834     FormatCode = "834"
	Format820     FormatCode = "820"
	Format837     FormatCode = "837"
	Format835     FormatCode = "835"
	Format270     FormatCode = "270"
	Format271     FormatCode = "271"
	Format278     FormatCode = "278"
	Format999     FormatCode = "999"
	Format850     FormatCode = "850"
	Format855     FormatCode = "855"
	Format856     FormatCode = "856"
	Format810     FormatCode = "810"
	FormatUnknown FormatCode = "unknown"
)

// Segment tags the pipeline depends on.
const (
	TagISA = "ISA"
	TagIEA = "IEA"
	TagGS  = "GS"
	TagGE  = "GE"
	TagST  = "ST"
	TagSE  = "SE"
	TagN1  = "N1"
)

// Segment is one physical line of an X12 file split into its tag and positional elements.
// Elements keeps empty strings for omitted fields; positions are significant.
type Segment struct {
	Tag        string   `json:"tag"`
	Elements   []string `json:"elements"`
	RawLine    string   `json:"rawLine"`
	LineNumber int      `json:"lineNumber"`
	Definition string   `json:"definition,omitempty"`
	IsValid    *bool    `json:"isValid,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}

// Element returns the element at the 1-based X12 position (NM103 is Element(3)),
// or an empty string when the segment is shorter than that.
func (s Segment) Element(pos int) string {
	if pos < 1 || pos > len(s.Elements) {
		return ""
	}

	return s.Elements[pos-1]
}

// Metadata holds interchange-level values read from the ISA header.
type Metadata struct {
	Sender          string `json:"sender"`
	Receiver        string `json:"receiver"`
	InterchangeDate string `json:"interchangeDate"`
	InterchangeTime string `json:"interchangeTime,omitempty"`
	ControlNumber   string `json:"controlNumber"`
	VersionID       string `json:"versionId"`
	TestIndicator   string `json:"testIndicator"`
}

// Statistics summarizes a parse. Error and warning counts are filled in by validation.
type Statistics struct {
	TotalSegments    int   `json:"totalSegments"`
	ErrorCount       int   `json:"errorCount"`
	WarningCount     int   `json:"warningCount"`
	ProcessingTimeMs int64 `json:"processingTimeMs"`
}

// Transaction is a tokenized and classified X12 file.
type Transaction struct {
	Type            FormatCode `json:"type"`
	Segments        []Segment  `json:"segments"`
	Metadata        Metadata   `json:"metadata"`
	Payer           *Payer     `json:"payer,omitempty"`
	BusinessContext string     `json:"businessContext,omitempty"`
	Statistics      Statistics `json:"statistics"`
}

// First returns the first segment with the given tag.
func (t *Transaction) First(tag string) (Segment, bool) {
	for _, seg := range t.Segments {
		if seg.Tag == tag {
			return seg, true
		}
	}

	return Segment{}, false
}

// All returns every segment with the given tag, in file order.
func (t *Transaction) All(tag string) []Segment {
	var out []Segment

	for _, seg := range t.Segments {
		if seg.Tag == tag {
			out = append(out, seg)
		}
	}

	return out
}
