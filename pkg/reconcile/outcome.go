// Package reconcile implements the metadata reconciliation components:
// matching electrode tables to the channel layout, relabeling events,
// attaching ICA decompositions, and merging annotation tables into mark
// sets. Each component mutates the shared recording and reports
// per-entity outcomes so callers can assert on counts instead of
// scraping console output.
package reconcile

// OutcomeKind classifies what happened to one table entity during a merge.
type OutcomeKind int

// Outcome kinds.
const (
	// OutcomeMatched means the entity was applied to the recording.
	OutcomeMatched OutcomeKind = iota

	// OutcomeUnmatched means no counterpart was found; the entity was
	// routed to a fallback bucket or left untouched.
	OutcomeUnmatched

	// OutcomeUnclassified means the entity's kind could not be
	// determined; it was dropped.
	OutcomeUnclassified
)

// String returns the kind's name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeMatched:
		return "matched"
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeUnclassified:
		return "unclassified"
	default:
		return "unknown"
	}
}

// Outcome is one entity's reconciliation result.
type Outcome struct {
	Label string
	Kind  OutcomeKind
}

// Count returns how many outcomes have the given kind.
func Count(outcomes []Outcome, kind OutcomeKind) int {
	n := 0
	for _, o := range outcomes {
		if o.Kind == kind {
			n++
		}
	}
	return n
}
