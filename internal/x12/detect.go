package x12

import (
	"strings"
)

// minPayerMatch is the shortest candidate value compared against the directory.
// Shorter values ("1", "ZZ") match too much by substring.
const minPayerMatch = 3

// Detector classifies transactions and attributes them to a payer using injected tables.
type Detector struct {
	tables Tables
}

func NewDetector(tables Tables) *Detector {
	return &Detector{tables: tables}
}

// DetectFormat returns the ST01 code of the first transaction set header carrying a
// supported code. Without one it falls back to marker matching on the raw lines.
func (d *Detector) DetectFormat(segments []Segment) FormatCode {
	for _, seg := range segments {
		if seg.Tag != TagST {
			continue
		}

		code := FormatCode(strings.TrimSpace(seg.Element(1)))
		if d.tables.Supported(code) {
			return code
		}
	}

	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = seg.RawLine
	}

	return d.detectByMarkers(strings.Join(lines, "\n"))
}

// DetectFormatText classifies raw content without a prior tokenize step.
func (d *Detector) DetectFormatText(raw string) FormatCode {
	return d.DetectFormat(Tokenize(raw))
}

// detectByMarkers is order dependent: formats are checked in table order and the
// first one whose marker pair both occur wins, so an 837 carrying "hl*" can still
// be reported as 270 if the 837 markers are absent.
func (d *Detector) detectByMarkers(raw string) FormatCode {
	content := strings.ToLower(raw)

	for _, f := range d.tables.Formats {
		if f.Markers[0] == "" || f.Markers[1] == "" {
			continue
		}

		if strings.Contains(content, f.Markers[0]) && strings.Contains(content, f.Markers[1]) {
			return f.Code
		}
	}

	return FormatUnknown
}

// IdentifyPayer matches the interchange sender and receiver ids, then every N1 name
// and id, against the payer directory. The first directory entry matching a
// candidate in either substring direction wins; nil means unattributed.
func (d *Detector) IdentifyPayer(tx *Transaction) *Payer {
	if tx == nil {
		return nil
	}

	var interchange []string

	if isa, ok := tx.First(TagISA); ok {
		interchange = append(interchange, InterchangeField(isa, 6), InterchangeField(isa, 8))
	}

	if p := d.matchPayer(interchange); p != nil {
		return p
	}

	var parties []string

	for _, n1 := range tx.All(TagN1) {
		parties = append(parties, n1.Element(2), n1.Element(4))
	}

	return d.matchPayer(parties)
}

func (d *Detector) matchPayer(candidates []string) *Payer {
	normalized := make([]string, 0, len(candidates))

	for _, c := range candidates {
		c = strings.ToLower(strings.TrimSpace(c))
		if len(c) >= minPayerMatch {
			normalized = append(normalized, c)
		}
	}

	if len(normalized) == 0 {
		return nil
	}

	for i := range d.tables.Payers {
		p := d.tables.Payers[i]

		keys := append([]string{p.Name}, p.Identifiers...)
		for _, key := range keys {
			key = strings.ToLower(strings.TrimSpace(key))
			if len(key) < minPayerMatch {
				continue
			}

			for _, c := range normalized {
				if strings.Contains(c, key) || strings.Contains(key, c) {
					return &p
				}
			}
		}
	}

	return nil
}
