package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// ErrWrongTransactionType is returned when a typed extractor is given a
// transaction of another type.
var ErrWrongTransactionType = errors.New("wrong transaction type")

const (
	memberStart  = "INS"
	paymentStart = "BPR"
)

// Extractor builds business objects from parsed transactions.
type Extractor struct {
	tables x12.Tables
}

func New(tables x12.Tables) *Extractor {
	return &Extractor{tables: tables}
}

// Extract maps the header and, depending on the type, members, payments and
// generic entities. It never fails: unreadable values extract as zero values.
func (e *Extractor) Extract(tx *x12.Transaction) *Result {
	res := &Result{
		Type:     tx.Type,
		Header:   e.header(tx),
		Members:  []Member{},
		Payments: []Payment{},
		Entities: []Entity{},
	}

	switch tx.Type {
	case x12.Format834:
		res.Members = members.collect(tx.Segments)
	case x12.Format820:
		res.Payments = payments.collect(tx.Segments)
	}

	if start := e.tables.Format(tx.Type).EntityStart; start != "" {
		res.Entities = entities(start).collect(tx.Segments)
	}

	return res
}

// Enrollment extracts the members of an 834.
func (e *Extractor) Enrollment(tx *x12.Transaction) ([]Member, error) {
	if tx.Type != x12.Format834 {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTransactionType, x12.Format834, tx.Type)
	}

	return members.collect(tx.Segments), nil
}

// Remittance extracts the payments of an 820.
func (e *Extractor) Remittance(tx *x12.Transaction) ([]Payment, error) {
	if tx.Type != x12.Format820 {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrWrongTransactionType, x12.Format820, tx.Type)
	}

	return payments.collect(tx.Segments), nil
}

func (e *Extractor) header(tx *x12.Transaction) Header {
	var h Header

	if isa, ok := tx.First(x12.TagISA); ok {
		field := func(pos int) string { return strings.TrimSpace(x12.InterchangeField(isa, pos)) }

		h.SenderQualifier = field(5)
		h.SenderID = field(6)
		h.ReceiverQualifier = field(7)
		h.ReceiverID = field(8)
		h.InterchangeDate = field(9)
		h.InterchangeTime = field(10)
		h.VersionID = field(12)
		h.ControlNumber = field(13)
		h.TestIndicator = field(15)
	}

	if gs, ok := tx.First(x12.TagGS); ok {
		h.FunctionalID = gs.Element(1)
		h.GroupSender = gs.Element(2)
		h.GroupReceiver = gs.Element(3)
		h.GroupDate = gs.Element(4)
		h.GroupTime = gs.Element(5)
		h.GroupControlNumber = gs.Element(6)
		h.GroupVersion = gs.Element(8)
	}

	if st, ok := tx.First(x12.TagST); ok {
		h.TransactionSetID = st.Element(1)
		h.TransactionControl = st.Element(2)
		h.ImplementationRef = st.Element(3)
	}

	if bgn, ok := tx.First("BGN"); ok {
		h.Purpose = bgn.Element(1)
		h.ReferenceID = bgn.Element(2)
		h.TransactionDate = bgn.Element(3)
		h.TransactionTime = bgn.Element(4)
		h.ActionCode = bgn.Element(8)
	}

	h.Parties = []Party{}

	start := e.tables.Format(tx.Type).EntityStart
	for _, seg := range segmentsBefore(tx.Segments, start) {
		if seg.Tag != x12.TagN1 {
			continue
		}

		h.Parties = append(h.Parties, Party{
			EntityCode:  seg.Element(1),
			Name:        seg.Element(2),
			IDQualifier: seg.Element(3),
			ID:          seg.Element(4),
		})
	}

	return h
}

// amount parses a monetary element. Anything unreadable is zero.
func amount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}

	return d
}

type memberBuilder struct {
	Member

	// loop is the NM101 code of the name loop currently open.
	loop string
}

var members = collector[memberBuilder, Member]{
	start: memberStart,
	begin: func(seg x12.Segment) memberBuilder {
		return memberBuilder{Member: Member{
			SubscriberIndicator: seg.Element(1),
			RelationshipCode:    seg.Element(2),
			MaintenanceType:     seg.Element(3),
			MaintenanceReason:   seg.Element(4),
			BenefitStatus:       seg.Element(5),
			EmploymentStatus:    seg.Element(8),
			References:          []Reference{},
			Dates:               []Date{},
			Coverages:           []Coverage{},
			LineNumber:          seg.LineNumber,
		}}
	},
	enrich: enrichMember,
	finish: func(b memberBuilder) Member { return b.Member },
}

func enrichMember(b *memberBuilder, seg x12.Segment) {
	m := &b.Member

	switch seg.Tag {
	case "NM1":
		b.loop = seg.Element(1)
		if b.loop != "IL" {
			return
		}

		m.LastName = seg.Element(3)
		m.FirstName = seg.Element(4)
		m.MiddleName = seg.Element(5)

		switch id := seg.Element(9); {
		case seg.Element(8) == "34":
			m.SSN = id
		case m.MemberID == "":
			m.MemberID = id
		}

	case "REF":
		ref := Reference{Qualifier: seg.Element(1), Value: seg.Element(2)}
		m.References = append(m.References, ref)

		if ref.Qualifier == "0F" {
			m.MemberID = ref.Value
		}

	case "N3":
		if b.loop == "IL" {
			m.Address1 = seg.Element(1)
			m.Address2 = seg.Element(2)
		}

	case "N4":
		if b.loop == "IL" {
			m.City = seg.Element(1)
			m.State = seg.Element(2)
			m.PostalCode = seg.Element(3)
		}

	case "DMG":
		if b.loop == "IL" {
			m.DateOfBirth = seg.Element(2)
			m.Gender = seg.Element(3)
		}

	case "HD":
		b.loop = ""
		m.Coverages = append(m.Coverages, Coverage{
			MaintenanceType: seg.Element(1),
			InsuranceLine:   seg.Element(3),
			Plan:            seg.Element(4),
			CoverageLevel:   seg.Element(5),
		})

	case "DTP":
		if n := len(m.Coverages); n > 0 {
			cov := &m.Coverages[n-1]

			switch seg.Element(1) {
			case "348":
				cov.BeginDate = seg.Element(3)
			case "349":
				cov.EndDate = seg.Element(3)
			}

			return
		}

		m.Dates = append(m.Dates, Date{Qualifier: seg.Element(1), Format: seg.Element(2), Value: seg.Element(3)})
	}
}

var payments = collector[Payment, Payment]{
	start: paymentStart,
	begin: func(seg x12.Segment) Payment {
		return Payment{
			HandlingCode:    seg.Element(1),
			MonetaryAmount:  amount(seg.Element(2)),
			CreditDebitFlag: seg.Element(3),
			PaymentMethod:   seg.Element(4),
			EffectiveDate:   seg.Element(16),
			Remittance:      []RemittanceDetail{},
			LineNumber:      seg.LineNumber,
		}
	},
	enrich: enrichPayment,
	finish: func(p Payment) Payment { return p },
}

func enrichPayment(p *Payment, seg x12.Segment) {
	switch seg.Tag {
	case "TRN":
		if p.TraceNumber == "" {
			p.TraceNumber = seg.Element(2)
		}

	case "N1":
		switch seg.Element(1) {
		case "PR":
			p.PayerName = seg.Element(2)
		case "PE":
			p.PayeeName = seg.Element(2)
		}

	case "RMR":
		p.Remittance = append(p.Remittance, RemittanceDetail{
			Qualifier:    seg.Element(1),
			ReferenceID:  seg.Element(2),
			ActionCode:   seg.Element(3),
			Amount:       amount(seg.Element(4)),
			BilledAmount: amount(seg.Element(5)),
		})
	}
}

func entities(start string) collector[Entity, Entity] {
	return collector[Entity, Entity]{
		start: start,
		begin: func(seg x12.Segment) Entity {
			return Entity{Tag: seg.Tag, LineNumber: seg.LineNumber, Segments: []x12.Segment{seg}}
		},
		enrich: func(e *Entity, seg x12.Segment) {
			switch seg.Tag {
			case x12.TagSE, x12.TagGE, x12.TagIEA:
				return
			}

			e.Segments = append(e.Segments, seg)
		},
		finish: func(e Entity) Entity { return e },
	}
}
