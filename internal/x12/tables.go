package x12

import (
	"maps"
	"slices"
)

// Format describes one supported transaction set.
type Format struct {
	Code        FormatCode
	Name        string
	Description string

	// RequiredSegments must all be present for the transaction to be structurally complete.
	RequiredSegments []string

	// EntityStart is the tag that opens a business entity (one member, one payment, one claim).
	EntityStart string

	// Markers are the lower-cased segment-tag pair used by text fallback detection.
	// Both must occur in the content for the format to match.
	Markers [2]string
}

// Payer is a known insurance trading partner.
type Payer struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Identifiers  []string `json:"identifiers,omitempty" yaml:"identifiers"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements"`
}

// Tables bundles the read-only lookup data used by detection and validation.
// Build it once at startup and pass it to the components that need it.
type Tables struct {
	// Formats is ordered: text fallback detection takes the first match.
	Formats     []Format
	Payers      []Payer
	Definitions map[string]string
}

// DefaultTables returns a fresh copy of the built-in tables.
func DefaultTables() Tables {
	return Tables{
		Formats:     slices.Clone(defaultFormats),
		Payers:      slices.Clone(defaultPayers),
		Definitions: maps.Clone(segmentDefinitions),
	}
}

// WithPayers returns a copy of t using the given payer directory.
func (t Tables) WithPayers(payers []Payer) Tables {
	t.Payers = slices.Clone(payers)
	return t
}

// Format returns the table entry for code. Unknown codes yield a Format with no
// required segments, which validation treats as "nothing to check".
func (t Tables) Format(code FormatCode) Format {
	for _, f := range t.Formats {
		if f.Code == code {
			return f
		}
	}

	return Format{Code: FormatUnknown, Name: "Unknown", Description: "Unrecognized transaction set"}
}

// Supported reports whether code is one of the configured formats.
func (t Tables) Supported(code FormatCode) bool {
	return slices.ContainsFunc(t.Formats, func(f Format) bool { return f.Code == code })
}

// PayerByID looks up a directory entry by its id.
func (t Tables) PayerByID(id string) *Payer {
	for i := range t.Payers {
		if t.Payers[i].ID == id {
			p := t.Payers[i]
			return &p
		}
	}

	return nil
}

var envelope = []string{TagISA, TagGS, TagST}

func required(body ...string) []string {
	out := slices.Clone(envelope)
	out = append(out, body...)

	return append(out, TagSE, TagGE, TagIEA)
}

var defaultFormats = []Format{
	{
		Code:             Format834,
		Name:             "Benefit Enrollment and Maintenance",
		Description:      "Member enrollment, changes and terminations sent by a plan sponsor to a payer",
		RequiredSegments: required("BGN", "N1", "INS", "NM1"),
		EntityStart:      "INS",
		Markers:          [2]string{"bgn*", "ins*"},
	},
	{
		Code:             Format820,
		Name:             "Payroll Deducted and Other Group Premium Payment",
		Description:      "Premium payment and remittance detail sent by a sponsor to a payer",
		RequiredSegments: required("TRN", "N1"),
		EntityStart:      "BPR",
		Markers:          [2]string{"bpr*", "rmr*"},
	},
	{
		Code:             Format837,
		Name:             "Health Care Claim",
		Description:      "Professional, institutional or dental claim submitted to a payer",
		RequiredSegments: required("BHT", "HL", "NM1", "CLM"),
		EntityStart:      "CLM",
		Markers:          [2]string{"clm*", "hi*"},
	},
	{
		Code:             Format835,
		Name:             "Health Care Claim Payment/Advice",
		Description:      "Claim payment and remittance advice sent by a payer to a provider",
		RequiredSegments: required("BPR", "TRN", "N1", "CLP"),
		EntityStart:      "CLP",
		Markers:          [2]string{"clp*", "svc*"},
	},
	{
		Code:             Format270,
		Name:             "Eligibility, Coverage or Benefit Inquiry",
		Description:      "Eligibility inquiry sent by a provider to a payer",
		RequiredSegments: required("BHT", "HL", "NM1", "EQ"),
		EntityStart:      "HL",
		Markers:          [2]string{"eq*", "hl*"},
	},
	{
		Code:             Format271,
		Name:             "Eligibility, Coverage or Benefit Information",
		Description:      "Eligibility response sent by a payer",
		RequiredSegments: required("BHT", "HL", "NM1", "EB"),
		EntityStart:      "HL",
		Markers:          [2]string{"eb*", "hl*"},
	},
	{
		Code:             Format278,
		Name:             "Health Care Services Review",
		Description:      "Prior authorization and referral request or response",
		RequiredSegments: required("BHT", "HL", "NM1", "UM"),
		EntityStart:      "HL",
		Markers:          [2]string{"um*", "hl*"},
	},
	{
		Code:             Format999,
		Name:             "Implementation Acknowledgment",
		Description:      "Syntax acknowledgment for a received functional group",
		RequiredSegments: required("AK1", "AK9"),
		EntityStart:      "AK2",
		Markers:          [2]string{"ak1*", "ik5*"},
	},
	{
		Code:             Format850,
		Name:             "Purchase Order",
		Description:      "Purchase order for goods or services",
		RequiredSegments: required("BEG", "PO1"),
		EntityStart:      "PO1",
		Markers:          [2]string{"beg*", "po1*"},
	},
	{
		Code:             Format855,
		Name:             "Purchase Order Acknowledgment",
		Description:      "Seller acknowledgment of a purchase order",
		RequiredSegments: required("BAK", "PO1"),
		EntityStart:      "PO1",
		Markers:          [2]string{"bak*", "po1*"},
	},
	{
		Code:             Format856,
		Name:             "Ship Notice/Manifest",
		Description:      "Advance ship notice describing shipment contents",
		RequiredSegments: required("BSN", "HL"),
		EntityStart:      "HL",
		Markers:          [2]string{"bsn*", "hl*"},
	},
	{
		Code:             Format810,
		Name:             "Invoice",
		Description:      "Invoice for goods or services",
		RequiredSegments: required("BIG", "IT1", "TDS"),
		EntityStart:      "IT1",
		Markers:          [2]string{"big*", "it1*"},
	},
}

var defaultPayers = []Payer{
	{
		ID:           "BCBS",
		Name:         "Blue Cross Blue Shield",
		Identifiers:  []string{"BCBS", "BLUECROSS", "00060"},
		Requirements: []string{"Subscriber number in REF*0F", "Group number in REF*1L"},
	},
	{
		ID:           "AETNA",
		Name:         "Aetna",
		Identifiers:  []string{"AETNA", "60054"},
		Requirements: []string{"Member SSN in NM1*IL qualifier 34"},
	},
	{
		ID:           "CIGNA",
		Name:         "Cigna",
		Identifiers:  []string{"CIGNA", "62308"},
		Requirements: []string{"Coverage level code on every HD"},
	},
	{
		ID:           "UHC",
		Name:         "UnitedHealthcare",
		Identifiers:  []string{"UHC", "UNITEDHEALTH", "87726"},
		Requirements: []string{"Benefit begin date DTP*348 on every HD"},
	},
	{
		ID:           "HUMANA",
		Name:         "Humana",
		Identifiers:  []string{"HUMANA", "61101"},
		Requirements: []string{"Gender code on DMG"},
	},
	{
		ID:           "KAISER",
		Name:         "Kaiser Permanente",
		Identifiers:  []string{"KAISER", "94135"},
		Requirements: []string{"Member address N3/N4 for every subscriber"},
	},
	{
		ID:           "ANTHEM",
		Name:         "Anthem",
		Identifiers:  []string{"ANTHEM", "47198"},
		Requirements: []string{"Group number in REF*1L"},
	},
	{
		ID:           "CMS",
		Name:         "Medicare",
		Identifiers:  []string{"CMS", "MEDICARE"},
		Requirements: []string{"Medicare beneficiary identifier in NM109"},
	},
	{
		ID:           "MEDICAID",
		Name:         "Medicaid",
		Identifiers:  []string{"MEDICAID", "MMIS"},
		Requirements: []string{"State recipient id in REF*23"},
	},
}

var segmentDefinitions = map[string]string{
	"ISA": "Interchange Control Header",
	"IEA": "Interchange Control Trailer",
	"GS":  "Functional Group Header",
	"GE":  "Functional Group Trailer",
	"ST":  "Transaction Set Header",
	"SE":  "Transaction Set Trailer",
	"BGN": "Beginning Segment",
	"BHT": "Beginning of Hierarchical Transaction",
	"BPR": "Financial Information",
	"TRN": "Reassociation Trace Number",
	"REF": "Reference Information",
	"DTP": "Date or Time Period",
	"DTM": "Date/Time Reference",
	"QTY": "Quantity",
	"N1":  "Party Identification",
	"N2":  "Additional Name Information",
	"N3":  "Party Location",
	"N4":  "Geographic Location",
	"PER": "Administrative Communications Contact",
	"ACT": "Account Identification",
	"INS": "Member Level Detail",
	"NM1": "Individual or Organizational Name",
	"DMG": "Demographic Information",
	"HD":  "Health Coverage",
	"COB": "Coordination of Benefits",
	"LX":  "Transaction Set Line Number",
	"ENT": "Entity",
	"RMR": "Remittance Advice Accounts Receivable Open Item Reference",
	"ADX": "Adjustment",
	"HL":  "Hierarchical Level",
	"CLM": "Claim Information",
	"HI":  "Health Care Information Codes",
	"SV1": "Professional Service",
	"SV2": "Institutional Service Line",
	"CLP": "Claim Payment Information",
	"CAS": "Claims Adjustment",
	"SVC": "Service Payment Information",
	"PLB": "Provider Level Adjustment",
	"EQ":  "Eligibility or Benefit Inquiry",
	"EB":  "Eligibility or Benefit Information",
	"UM":  "Health Care Services Review Information",
	"AK1": "Functional Group Response Header",
	"AK2": "Transaction Set Response Header",
	"IK3": "Error Identification",
	"IK4": "Implementation Data Element Note",
	"IK5": "Transaction Set Response Trailer",
	"AK9": "Functional Group Response Trailer",
	"BEG": "Beginning Segment for Purchase Order",
	"BAK": "Beginning Segment for Purchase Order Acknowledgment",
	"PO1": "Baseline Item Data",
	"ACK": "Line Item Acknowledgment",
	"BSN": "Beginning Segment for Ship Notice",
	"TD1": "Carrier Details (Quantity and Weight)",
	"BIG": "Beginning Segment for Invoice",
	"IT1": "Baseline Item Data (Invoice)",
	"TDS": "Total Monetary Value Summary",
	"CTT": "Transaction Totals",
}
