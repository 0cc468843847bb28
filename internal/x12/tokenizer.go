package x12

import (
	"regexp"
	"strings"
	"unicode"
)

// delimiters matches every character treated as a field separator. Input is already
// split by physical line, so the segment terminator "~" is treated like "*" and "^".
var delimiters = regexp.MustCompile(`[*~^]`)

// isaFields is the number of elements in an ISA segment.
const isaFields = 16

// Tokenize splits raw X12 text into segments, one per non-blank line.
// LineNumber is the 1-based index of the line in the unfiltered input.
// It never fails: a line without a delimiter yields a segment with no elements.
func Tokenize(raw string) []Segment {
	lines := strings.Split(raw, "\n")
	segments := make([]Segment, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		tokens := delimiters.Split(line, -1)

		segments = append(segments, Segment{
			Tag:        tokens[0],
			Elements:   tokens[1:],
			RawLine:    line,
			LineNumber: i + 1,
		})
	}

	return segments
}

// Unwrap puts each segment of a wrapped interchange (the whole file on one physical
// line, segments separated by the terminator declared after ISA16) on its own line.
// Content that is already line-oriented is returned unchanged.
func Unwrap(raw string) string {
	trimmed := strings.TrimLeftFunc(raw, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})

	if !strings.HasPrefix(trimmed, TagISA) || len(trimmed) < 4 {
		return raw
	}

	if strings.Count(strings.TrimSpace(trimmed), "\n") > 0 {
		return raw
	}

	term, ok := interchangeTerminator(trimmed)
	if !ok {
		return raw
	}

	parts := strings.Split(trimmed, string(term))
	lines := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			lines = append(lines, p)
		}
	}

	return strings.Join(lines, "\n")
}

// interchangeTerminator finds the segment terminator of an ISA header: the character
// right after ISA16, located by counting the element separator the header declares.
// ISA06 and ISA08 are not always padded, so the fixed 106-byte offset is unreliable.
func interchangeTerminator(isa string) (rune, bool) {
	sep := isa[3]
	seen := 0

	for i := 3; i < len(isa); i++ {
		if isa[i] != sep {
			continue
		}

		seen++
		if seen < isaFields {
			continue
		}

		// ISA16 is a single component separator character.
		if i+2 >= len(isa) {
			return 0, false
		}

		term := rune(isa[i+2])
		if unicode.IsLetter(term) || unicode.IsDigit(term) || unicode.IsSpace(term) || term == rune(sep) {
			return 0, false
		}

		return term, true
	}

	return 0, false
}

// InterchangeFields returns the ISA elements split on the element separator the
// header itself declares (the fourth character). ISA11 is often "^", which the
// generic tokenizer would split into two empty elements and shift every later
// position; this view keeps the 16 fixed positions intact.
func InterchangeFields(seg Segment) []string {
	if seg.Tag != TagISA || len(seg.RawLine) < 4 {
		return seg.Elements
	}

	sep := seg.RawLine[3:4]

	return strings.Split(seg.RawLine, sep)[1:]
}

// InterchangeField returns the 1-based ISA position from InterchangeFields.
func InterchangeField(seg Segment, pos int) string {
	fields := InterchangeFields(seg)
	if pos < 1 || pos > len(fields) {
		return ""
	}

	return fields[pos-1]
}
