package recording

// MarkSet holds discrete channel/component marks and continuous per-sample
// (or per-component) boolean tracks. It is rebuilt from scratch each time
// annotation ingest runs; TimeInfo entries are append-only within one run.
type MarkSet struct {
	// ChanMarks maps a category key ("chan_" + suffix) to the ordered,
	// deduplicated channel-list strings recorded under it.
	ChanMarks map[string][]string

	// CompMarks is the component-domain counterpart ("comp_" + suffix).
	CompMarks map[string][]string

	// TimeInfo is the ordered sequence of continuous mark tracks.
	TimeInfo []TimeMark
}

// TimeMark is one boolean annotation track. Flags has one entry per
// sample, or per component when the mark set is component-domain; its
// length is fixed at creation and only mutated in place.
type TimeMark struct {
	Label string
	Flags []bool
}

// NewMarkSet returns an empty mark set with allocated buckets.
func NewMarkSet() *MarkSet {
	return &MarkSet{
		ChanMarks: make(map[string][]string),
		CompMarks: make(map[string][]string),
	}
}

// AddChanMark records member under the channel-domain category key,
// keeping insertion order and dropping duplicates.
func (m *MarkSet) AddChanMark(key, member string) {
	m.ChanMarks[key] = appendUnique(m.ChanMarks[key], member)
}

// AddCompMark records member under the component-domain category key.
func (m *MarkSet) AddCompMark(key, member string) {
	m.CompMarks[key] = appendUnique(m.CompMarks[key], member)
}

// EnsureTimeMark returns the index of the TimeMark with the given label,
// appending a fresh all-false track of the given width when the label has
// not been seen. Lookup is by exact label.
func (m *MarkSet) EnsureTimeMark(label string, width int) int {
	for i := range m.TimeInfo {
		if m.TimeInfo[i].Label == label {
			return i
		}
	}
	m.TimeInfo = append(m.TimeInfo, TimeMark{
		Label: label,
		Flags: make([]bool, width),
	})
	return len(m.TimeInfo) - 1
}

// SetRange sets every flag in the inclusive index range [start, end],
// clamped to the track's bounds. Flags are only ever set, never cleared;
// overlapping ranges union.
func (t *TimeMark) SetRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end >= len(t.Flags) {
		end = len(t.Flags) - 1
	}
	for i := start; i <= end; i++ {
		t.Flags[i] = true
	}
}

// Count returns the number of set flags.
func (t *TimeMark) Count() int {
	n := 0
	for _, f := range t.Flags {
		if f {
			n++
		}
	}
	return n
}

func appendUnique(list []string, member string) []string {
	for _, have := range list {
		if have == member {
			return list
		}
	}
	return append(list, member)
}
