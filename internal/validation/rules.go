package validation

import (
	"regexp"
	"slices"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

type fieldRule struct {
	name    string
	tag     string
	pos     int
	pattern *regexp.Regexp

	// formats restricts the rule; nil applies it to every format.
	formats []x12.FormatCode
	when    func(seg x12.Segment) bool

	message    string
	suggestion string
}

func (r fieldRule) applies(format x12.FormatCode, seg x12.Segment) bool {
	if r.formats != nil && !slices.Contains(r.formats, format) {
		return false
	}

	return r.when == nil || r.when(seg)
}

// value returns the element under test, or false when the segment is too short
// to carry it. ISA positions are read from the header's own separator.
func (r fieldRule) value(seg x12.Segment) (string, bool) {
	fields := seg.Elements
	if seg.Tag == x12.TagISA {
		fields = x12.InterchangeFields(seg)
	}

	if r.pos > len(fields) {
		return "", false
	}

	return fields[r.pos-1], true
}

var (
	sixDigits   = regexp.MustCompile(`^\d{6}$`)
	fourDigits  = regexp.MustCompile(`^\d{4}$`)
	nineDigits  = regexp.MustCompile(`^\d{9}$`)
	eightDigits = regexp.MustCompile(`^\d{8}$`)
	usage       = regexp.MustCompile(`^[PT]$`)
	gender      = regexp.MustCompile(`^[MFU]$`)
)

// demographic lists the formats whose DMG segments describe a person.
var demographic = []x12.FormatCode{x12.Format834, x12.Format837, x12.Format270, x12.Format271, x12.Format278}

var fieldRules = []fieldRule{
	{name: "ISA09", tag: "ISA", pos: 9, pattern: sixDigits, message: "interchange date must be YYMMDD", suggestion: "Use a 6-digit date such as 250930."},
	{name: "ISA10", tag: "ISA", pos: 10, pattern: fourDigits, message: "interchange time must be HHMM", suggestion: "Use a 4-digit time such as 1200."},
	{name: "ISA13", tag: "ISA", pos: 13, pattern: nineDigits, message: "control number must be 9 digits", suggestion: "Left-pad the control number with zeros."},
	{name: "ISA15", tag: "ISA", pos: 15, pattern: usage, message: "usage indicator must be P or T", suggestion: "Use P for production or T for test."},
	{name: "GS04", tag: "GS", pos: 4, pattern: eightDigits, message: "group date must be CCYYMMDD", suggestion: "Use an 8-digit date such as 20250930."},
	{name: "DMG02", tag: "DMG", pos: 2, pattern: eightDigits, formats: demographic, message: "birth date must be CCYYMMDD", suggestion: "Use an 8-digit date such as 19800115."},
	{name: "DMG03", tag: "DMG", pos: 3, pattern: gender, formats: demographic, message: "gender code must be M, F or U", suggestion: "Use M, F or U."},
	{
		name:       "DTP03",
		tag:        "DTP",
		pos:        3,
		pattern:    eightDigits,
		when:       func(seg x12.Segment) bool { return seg.Element(2) == "D8" },
		message:    "D8 date must be CCYYMMDD",
		suggestion: "Use an 8-digit date or change the DTP02 qualifier.",
	},
}
