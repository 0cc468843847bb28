package extract

import (
	"github.com/shopspring/decimal"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// Reference is a REF qualifier/value pair.
type Reference struct {
	Qualifier string `json:"qualifier"`
	Value     string `json:"value"`
}

// Date is a DTP qualifier with its date value.
type Date struct {
	Qualifier string `json:"qualifier"`
	Format    string `json:"format"`
	Value     string `json:"value"`
}

// Coverage is one HD health coverage line with its benefit dates.
type Coverage struct {
	MaintenanceType string `json:"maintenanceType,omitempty"`
	InsuranceLine   string `json:"insuranceLine,omitempty"`
	Plan            string `json:"plan,omitempty"`
	CoverageLevel   string `json:"coverageLevel,omitempty"`
	BeginDate       string `json:"beginDate,omitempty"`
	EndDate         string `json:"endDate,omitempty"`
}

// Member is one enrollment entity of an 834, opened by INS.
type Member struct {
	SubscriberIndicator string `json:"subscriberIndicator"`
	RelationshipCode    string `json:"relationshipCode"`
	MaintenanceType     string `json:"maintenanceType"`
	MaintenanceReason   string `json:"maintenanceReason,omitempty"`
	BenefitStatus       string `json:"benefitStatus,omitempty"`
	EmploymentStatus    string `json:"employmentStatus,omitempty"`

	MemberID    string `json:"memberId,omitempty"`
	SSN         string `json:"ssn,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	MiddleName  string `json:"middleName,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`

	Address1   string `json:"address1,omitempty"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`

	References []Reference `json:"references"`
	Dates      []Date      `json:"dates"`
	Coverages  []Coverage  `json:"coverages"`

	LineNumber int `json:"lineNumber"`
}

// RemittanceDetail is one RMR line item of a payment.
type RemittanceDetail struct {
	Qualifier    string          `json:"qualifier"`
	ReferenceID  string          `json:"referenceId"`
	ActionCode   string          `json:"actionCode,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	BilledAmount decimal.Decimal `json:"billedAmount"`
}

// Payment is one premium payment entity of an 820, opened by BPR.
type Payment struct {
	HandlingCode    string             `json:"handlingCode"`
	MonetaryAmount  decimal.Decimal    `json:"monetaryAmount"`
	CreditDebitFlag string             `json:"creditDebitFlag"`
	PaymentMethod   string             `json:"paymentMethod"`
	EffectiveDate   string             `json:"effectiveDate,omitempty"`
	TraceNumber     string             `json:"traceNumber,omitempty"`
	PayerName       string             `json:"payerName,omitempty"`
	PayeeName       string             `json:"payeeName,omitempty"`
	Remittance      []RemittanceDetail `json:"remittanceDetails"`
	LineNumber      int                `json:"lineNumber"`
}

// Entity is a generic business record for formats without a typed extractor: the
// entity-start segment and everything up to the next one.
type Entity struct {
	Tag        string        `json:"tag"`
	LineNumber int           `json:"lineNumber"`
	Segments   []x12.Segment `json:"segments"`
}

// Party is an N1 name loop that belongs to the transaction rather than an entity.
type Party struct {
	EntityCode  string `json:"entityCode"`
	Name        string `json:"name"`
	IDQualifier string `json:"idQualifier,omitempty"`
	ID          string `json:"id,omitempty"`
}

// Header is the positional mapping of the envelope and beginning segments.
type Header struct {
	SenderQualifier   string `json:"senderQualifier,omitempty"`
	SenderID          string `json:"senderId,omitempty"`
	ReceiverQualifier string `json:"receiverQualifier,omitempty"`
	ReceiverID        string `json:"receiverId,omitempty"`
	InterchangeDate   string `json:"interchangeDate,omitempty"`
	InterchangeTime   string `json:"interchangeTime,omitempty"`
	VersionID         string `json:"versionId,omitempty"`
	ControlNumber     string `json:"controlNumber,omitempty"`
	TestIndicator     string `json:"testIndicator,omitempty"`

	FunctionalID       string `json:"functionalId,omitempty"`
	GroupSender        string `json:"groupSender,omitempty"`
	GroupReceiver      string `json:"groupReceiver,omitempty"`
	GroupDate          string `json:"groupDate,omitempty"`
	GroupTime          string `json:"groupTime,omitempty"`
	GroupControlNumber string `json:"groupControlNumber,omitempty"`
	GroupVersion       string `json:"groupVersion,omitempty"`

	TransactionSetID   string  `json:"transactionSetId,omitempty"`
	TransactionControl string  `json:"transactionControl,omitempty"`
	ImplementationRef  string  `json:"implementationRef,omitempty"`
	Purpose            string  `json:"purpose,omitempty"`
	ReferenceID        string  `json:"referenceId,omitempty"`
	TransactionDate    string  `json:"transactionDate,omitempty"`
	TransactionTime    string  `json:"transactionTime,omitempty"`
	ActionCode         string  `json:"actionCode,omitempty"`
	Parties            []Party `json:"parties"`
}

// Map flattens the header into the key/value form stored as parsed_data.
// Empty values are left out.
func (h Header) Map() map[string]string {
	m := map[string]string{}

	set := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}

	set("senderQualifier", h.SenderQualifier)
	set("senderId", h.SenderID)
	set("receiverQualifier", h.ReceiverQualifier)
	set("receiverId", h.ReceiverID)
	set("interchangeDate", h.InterchangeDate)
	set("interchangeTime", h.InterchangeTime)
	set("versionId", h.VersionID)
	set("controlNumber", h.ControlNumber)
	set("testIndicator", h.TestIndicator)
	set("functionalId", h.FunctionalID)
	set("groupSender", h.GroupSender)
	set("groupReceiver", h.GroupReceiver)
	set("groupDate", h.GroupDate)
	set("groupTime", h.GroupTime)
	set("groupControlNumber", h.GroupControlNumber)
	set("groupVersion", h.GroupVersion)
	set("transactionSetId", h.TransactionSetID)
	set("transactionControl", h.TransactionControl)
	set("implementationRef", h.ImplementationRef)
	set("purpose", h.Purpose)
	set("referenceId", h.ReferenceID)
	set("transactionDate", h.TransactionDate)
	set("transactionTime", h.TransactionTime)
	set("actionCode", h.ActionCode)

	return m
}

// Result is the structured business view of one transaction.
type Result struct {
	Type     x12.FormatCode `json:"type"`
	Header   Header         `json:"header"`
	Members  []Member       `json:"members"`
	Payments []Payment      `json:"payments"`
	Entities []Entity       `json:"entities"`
}
