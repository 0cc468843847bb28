package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// Placeholders written by ToSegments when the result does not carry a value.
// They keep the output well formed; they are not business defaults.
const (
	DefaultQualifier     = "ZZ"
	DefaultTestIndicator = "P"
	DefaultVersion       = "00501"
	DefaultControlNumber = "000000001"
	DefaultGroupControl  = "1"
	DefaultSetControl    = "0001"
	DefaultDate          = "000000"
	DefaultTime          = "0000"
)

var functionalIDs = map[x12.FormatCode]string{
	x12.Format834: "BE",
	x12.Format820: "RA",
	x12.Format837: "HC",
	x12.Format835: "HP",
	x12.Format270: "HS",
	x12.Format271: "HB",
	x12.Format278: "HI",
	x12.Format999: "FA",
	x12.Format850: "PO",
	x12.Format855: "PR",
	x12.Format856: "SH",
	x12.Format810: "IN",
}

var implementationRefs = map[x12.FormatCode]string{
	x12.Format834: "005010X220A1",
	x12.Format820: "005010X218",
}

// ToSegments rebuilds X12 text from an extraction result, one segment per line.
// The output is a best-effort reconstruction: header fields come from the result
// or from the placeholders above, entities are re-emitted in canonical field order,
// and trailer counts are recomputed. Elements that extraction dropped are not restored.
func ToSegments(res *Result) string {
	h := res.Header

	var body []string

	st02 := or(h.TransactionControl, DefaultSetControl)
	body = append(body, segment(x12.TagST, string(res.Type), st02, or(h.ImplementationRef, implementationRefs[res.Type])))

	if res.Type == x12.Format834 {
		body = append(body, segment("BGN",
			or(h.Purpose, "00"), or(h.ReferenceID, or(h.ControlNumber, DefaultControlNumber)),
			or(h.TransactionDate, groupDate(h)), or(h.TransactionTime, or(h.InterchangeTime, DefaultTime)),
			"", "", "", or(h.ActionCode, "2"),
		))
	}

	for _, p := range h.Parties {
		body = append(body, segment(x12.TagN1, p.EntityCode, p.Name, p.IDQualifier, p.ID))
	}

	switch res.Type {
	case x12.Format834:
		for _, m := range res.Members {
			body = append(body, memberSegments(m)...)
		}
	case x12.Format820:
		for _, p := range res.Payments {
			body = append(body, paymentSegments(p)...)
		}
	default:
		for _, e := range res.Entities {
			for _, seg := range e.Segments {
				body = append(body, seg.RawLine)
			}
		}
	}

	body = append(body, segment(x12.TagSE, strconv.Itoa(len(body)+1), st02))

	control := zeroPad(or(h.ControlNumber, DefaultControlNumber), 9)
	groupControl := or(h.GroupControlNumber, DefaultGroupControl)

	lines := []string{
		interchangeHeader(h, control),
		segment(x12.TagGS,
			or(h.FunctionalID, functionalIDs[res.Type]),
			or(h.GroupSender, h.SenderID), or(h.GroupReceiver, h.ReceiverID),
			groupDate(h), or(h.GroupTime, or(h.InterchangeTime, DefaultTime)),
			groupControl, "X", or(h.GroupVersion, implementationRefs[res.Type]),
		),
	}
	lines = append(lines, body...)
	lines = append(lines,
		segment(x12.TagGE, "1", groupControl),
		segment(x12.TagIEA, "1", control),
	)

	return strings.Join(lines, "\n") + "\n"
}

// interchangeHeader writes the fixed-width ISA.
func interchangeHeader(h Header, control string) string {
	return fmt.Sprintf("ISA*00*%-10s*00*%-10s*%s*%-15s*%s*%-15s*%s*%s*^*%s*%s*0*%s*:",
		"", "",
		or(h.SenderQualifier, DefaultQualifier), h.SenderID,
		or(h.ReceiverQualifier, DefaultQualifier), h.ReceiverID,
		or(h.InterchangeDate, DefaultDate), or(h.InterchangeTime, DefaultTime),
		or(h.VersionID, DefaultVersion), control,
		or(h.TestIndicator, DefaultTestIndicator),
	)
}

func zeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return strings.Repeat("0", width-len(s)) + s
}

func groupDate(h Header) string {
	if h.GroupDate != "" {
		return h.GroupDate
	}

	if len(h.InterchangeDate) == 6 {
		return "20" + h.InterchangeDate
	}

	return "00000000"
}

func memberSegments(m Member) []string {
	out := []string{segment("INS",
		m.SubscriberIndicator, m.RelationshipCode, m.MaintenanceType, m.MaintenanceReason, m.BenefitStatus,
		"", "", m.EmploymentStatus,
	)}

	hasSubscriberRef := false

	for _, ref := range m.References {
		out = append(out, segment("REF", ref.Qualifier, ref.Value))
		hasSubscriberRef = hasSubscriberRef || ref.Qualifier == "0F"
	}

	idQualifier, id := "", ""

	switch {
	case m.SSN != "":
		idQualifier, id = "34", m.SSN
	case m.MemberID != "" && !hasSubscriberRef:
		idQualifier, id = "ZZ", m.MemberID
	}

	out = append(out, segment("NM1", "IL", "1", m.LastName, m.FirstName, m.MiddleName, "", "", idQualifier, id))

	if m.Address1 != "" || m.Address2 != "" {
		out = append(out, segment("N3", m.Address1, m.Address2))
	}

	if m.City != "" || m.State != "" || m.PostalCode != "" {
		out = append(out, segment("N4", m.City, m.State, m.PostalCode))
	}

	if m.DateOfBirth != "" || m.Gender != "" {
		out = append(out, segment("DMG", "D8", m.DateOfBirth, m.Gender))
	}

	for _, d := range m.Dates {
		out = append(out, segment("DTP", d.Qualifier, or(d.Format, "D8"), d.Value))
	}

	for _, c := range m.Coverages {
		out = append(out, segment("HD", c.MaintenanceType, "", c.InsuranceLine, c.Plan, c.CoverageLevel))

		if c.BeginDate != "" {
			out = append(out, segment("DTP", "348", "D8", c.BeginDate))
		}

		if c.EndDate != "" {
			out = append(out, segment("DTP", "349", "D8", c.EndDate))
		}
	}

	return out
}

func paymentSegments(p Payment) []string {
	bpr := []string{p.HandlingCode, p.MonetaryAmount.StringFixed(2), p.CreditDebitFlag, p.PaymentMethod}
	if p.EffectiveDate != "" {
		bpr = append(bpr, make([]string, 11)...)
		bpr = append(bpr, p.EffectiveDate)
	}

	out := []string{segment("BPR", bpr...)}

	if p.TraceNumber != "" {
		out = append(out, segment("TRN", "1", p.TraceNumber))
	}

	if p.PayerName != "" {
		out = append(out, segment(x12.TagN1, "PR", p.PayerName))
	}

	if p.PayeeName != "" {
		out = append(out, segment(x12.TagN1, "PE", p.PayeeName))
	}

	for _, d := range p.Remittance {
		out = append(out, segment("RMR", d.Qualifier, d.ReferenceID, d.ActionCode, d.Amount.StringFixed(2), d.BilledAmount.StringFixed(2)))
	}

	return out
}

// segment joins a tag and its elements, dropping trailing empty elements.
func segment(tag string, elems ...string) string {
	n := len(elems)
	for n > 0 && elems[n-1] == "" {
		n--
	}

	return strings.Join(append([]string{tag}, elems[:n]...), "*")
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}

	return fallback
}
