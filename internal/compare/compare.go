package compare

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/extract"
)

// MemberChange lists the fields that differ for a member present in both files.
type MemberChange struct {
	MemberID string   `json:"memberId"`
	Fields   []string `json:"fields"`
}

// Diff is the business-level difference between two extraction results.
type Diff struct {
	BaseType  string `json:"baseType"`
	OtherType string `json:"otherType"`

	Added     []extract.Member `json:"added"`
	Removed   []extract.Member `json:"removed"`
	Changed   []MemberChange   `json:"changed"`
	Unchanged int              `json:"unchanged"`

	BasePaymentTotal  decimal.Decimal `json:"basePaymentTotal"`
	OtherPaymentTotal decimal.Decimal `json:"otherPaymentTotal"`
	PaymentDelta      decimal.Decimal `json:"paymentDelta"`

	EntityDelta int `json:"entityDelta"`
}

// Identical reports whether the diff found no member or payment difference.
func (d Diff) Identical() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0 && d.PaymentDelta.IsZero()
}

// Compare matches members by member ID (falling back to SSN, then name and birth
// date) and totals payments on each side.
func Compare(base, other *extract.Result) Diff {
	d := Diff{
		BaseType:          string(base.Type),
		OtherType:         string(other.Type),
		Added:             []extract.Member{},
		Removed:           []extract.Member{},
		Changed:           []MemberChange{},
		BasePaymentTotal:  total(base.Payments),
		OtherPaymentTotal: total(other.Payments),
		EntityDelta:       len(other.Entities) - len(base.Entities),
	}

	d.PaymentDelta = d.OtherPaymentTotal.Sub(d.BasePaymentTotal)

	// Members sharing a key are paired in file order, so repeated keys on either
	// side surface as added or removed instead of being collapsed.
	remaining := make(map[string][]extract.Member, len(other.Members))
	order := make([]string, 0, len(other.Members))

	for _, m := range other.Members {
		k := key(m)
		if _, seen := remaining[k]; !seen {
			order = append(order, k)
		}

		remaining[k] = append(remaining[k], m)
	}

	for _, m := range base.Members {
		k := key(m)

		queue := remaining[k]
		if len(queue) == 0 {
			d.Removed = append(d.Removed, m)
			continue
		}

		o := queue[0]
		remaining[k] = queue[1:]

		if fields := changedFields(m, o); len(fields) > 0 {
			d.Changed = append(d.Changed, MemberChange{MemberID: k, Fields: fields})
		} else {
			d.Unchanged++
		}
	}

	for _, k := range order {
		d.Added = append(d.Added, remaining[k]...)
	}

	slices.SortStableFunc(d.Changed, func(a, b MemberChange) int { return cmp.Compare(a.MemberID, b.MemberID) })

	return d
}

func key(m extract.Member) string {
	switch {
	case m.MemberID != "":
		return m.MemberID
	case m.SSN != "":
		return "ssn:" + m.SSN
	default:
		return "name:" + m.LastName + "|" + m.FirstName + "|" + m.DateOfBirth
	}
}

func total(payments []extract.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.MonetaryAmount)
	}

	return sum
}

func changedFields(a, b extract.Member) []string {
	checks := []struct {
		name string
		a, b string
	}{
		{"maintenanceType", a.MaintenanceType, b.MaintenanceType},
		{"maintenanceReason", a.MaintenanceReason, b.MaintenanceReason},
		{"benefitStatus", a.BenefitStatus, b.BenefitStatus},
		{"relationshipCode", a.RelationshipCode, b.RelationshipCode},
		{"lastName", a.LastName, b.LastName},
		{"firstName", a.FirstName, b.FirstName},
		{"middleName", a.MiddleName, b.MiddleName},
		{"ssn", a.SSN, b.SSN},
		{"dateOfBirth", a.DateOfBirth, b.DateOfBirth},
		{"gender", a.Gender, b.Gender},
		{"address1", a.Address1, b.Address1},
		{"address2", a.Address2, b.Address2},
		{"city", a.City, b.City},
		{"state", a.State, b.State},
		{"postalCode", a.PostalCode, b.PostalCode},
	}

	var fields []string

	for _, c := range checks {
		if c.a != c.b {
			fields = append(fields, c.name)
		}
	}

	if !slices.Equal(a.Coverages, b.Coverages) {
		fields = append(fields, "coverages")
	}

	return fields
}
