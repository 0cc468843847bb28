package extract

import (
	"github.com/patrickbaitman-dev/edi-compare-decode-94684/internal/x12"
)

// collector folds a segment stream into entities. The fold is in one of two
// states: idle before the first start tag, or open on a builder. A start tag
// closes the open builder, if any, and opens a new one; every other segment is
// offered to the open builder. The stream end closes the last one.
type collector[B, E any] struct {
	start  string
	begin  func(seg x12.Segment) B
	enrich func(b *B, seg x12.Segment)
	finish func(b B) E
}

type foldState[B any] struct {
	open    bool
	builder B
}

func (c collector[B, E]) collect(segments []x12.Segment) []E {
	entities := []E{}

	var st foldState[B]

	closeOpen := func() {
		if st.open {
			entities = append(entities, c.finish(st.builder))
		}

		st = foldState[B]{}
	}

	for _, seg := range segments {
		if seg.Tag == c.start {
			closeOpen()
			st = foldState[B]{open: true, builder: c.begin(seg)}

			continue
		}

		if st.open {
			c.enrich(&st.builder, seg)
		}
	}

	closeOpen()

	return entities
}

// segmentsBefore returns the segments preceding the first start tag.
func segmentsBefore(segments []x12.Segment, start string) []x12.Segment {
	if start == "" {
		return segments
	}

	for i, seg := range segments {
		if seg.Tag == start {
			return segments[:i]
		}
	}

	return segments
}
