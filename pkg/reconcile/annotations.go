package reconcile

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// AnnotationState tracks where an AnnotationMerger is in one ingest.
type AnnotationState int

// Annotation merger states.
const (
	StateIdle AnnotationState = iota
	StateIngesting
	StateDone
)

// prefixLen is how many leading label characters classify a discrete row.
const prefixLen = 4

// AnnotationMerger converts an annotation table into the recording's mark
// set: discrete rows become channel/component mark buckets, onset+duration
// rows become boolean time tracks, and a packed-binary supplement, when
// present next to the table, is appended verbatim.
type AnnotationMerger struct {
	loader         sidecar.Loader
	rebuilder      recording.Rebuilder
	marksSupported bool
	state          AnnotationState
}

// NewAnnotationMerger builds a merger. marksSupported mirrors whether the
// environment's mark-handling subsystem is present; without it the merge
// fails outright rather than dropping requested annotation data.
func NewAnnotationMerger(loader sidecar.Loader, rb recording.Rebuilder, marksSupported bool) *AnnotationMerger {
	return &AnnotationMerger{
		loader:         loader,
		rebuilder:      rb,
		marksSupported: marksSupported,
	}
}

// State returns the merger's current state.
func (m *AnnotationMerger) State() AnnotationState { return m.state }

// Merge runs the annotation state machine over the table at tablePath.
// Any prior mark set on the recording is cleared. The flag width for new
// time tracks is fixed once at entry: the recording's sample count, or
// the component count when an ICA decomposition is attached.
func (m *AnnotationMerger) Merge(ctx context.Context, rec *recording.Recording, tablePath string) ([]Outcome, error) {
	log := logging.FromContext(ctx)

	if !m.marksSupported {
		return nil, errors.NewCapabilityError("marks",
			"annotation merging requested but mark handling is not present")
	}

	// The companion descriptor must exist before any row is touched;
	// without it the output would silently miss requested annotations.
	columns, err := sidecar.LoadColumns(sidecar.CompanionJSON(tablePath))
	if err != nil {
		return nil, err
	}

	table, err := m.loader.Load(tablePath, sidecar.Annotations)
	if err != nil {
		return nil, err
	}

	m.state = StateIngesting
	rec.Marks = recording.NewMarkSet()
	width := rec.MarkWidth()

	log.Debug().
		Str("table", tablePath).
		Strs("columns", columns).
		Int("mark_width", width).
		Bool("component_domain", rec.ICA != nil).
		Msg("ingesting annotations")

	outcomes := make([]Outcome, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		outcome := m.mergeRow(log, rec, table, i, width)
		outcomes = append(outcomes, outcome)
	}

	if binPath := sidecar.CompanionBinary(tablePath); sidecar.Exists(binPath) {
		records, err := sidecar.LoadMarkRecords(binPath)
		if err != nil {
			return nil, err
		}
		// Additive merge: duplicate labels are legal, each record is an
		// independent entry.
		rec.Marks.TimeInfo = append(rec.Marks.TimeInfo, records...)
		log.Info().
			Str("supplement", binPath).
			Int("records", len(records)).
			Msg("appended packed mark supplement")
	}

	if err := m.rebuilder.Rebuild(rec); err != nil {
		return nil, err
	}

	m.state = StateDone
	return outcomes, nil
}

func (m *AnnotationMerger) mergeRow(log *zerolog.Logger, rec *recording.Recording, table *sidecar.Table, row, width int) Outcome {
	label, _ := table.Cell(row, "label")
	channels, _ := table.Cell(row, "channels")

	onsetCell, _ := table.Cell(row, "onset")
	durationCell, _ := table.Cell(row, "duration")
	onset, hasOnset := parseSeconds(onsetCell)
	duration, hasDuration := parseSeconds(durationCell)

	if !hasOnset && !hasDuration {
		return m.mergeDiscrete(log, rec, label, channels)
	}

	// Time-range marker. A single absent value means zero: an onset with
	// no duration flags one instant, a duration with no onset starts at
	// the first sample.
	idx := rec.Marks.EnsureTimeMark(label, width)
	start := int(math.Round(onset * rec.SampleRate))
	end := int(math.Round((onset + duration) * rec.SampleRate))
	rec.Marks.TimeInfo[idx].SetRange(start, end)

	return Outcome{Label: label, Kind: OutcomeMatched}
}

// mergeDiscrete classifies a discrete marker row by the first four label
// characters, case-insensitively. Unclassified kinds are dropped with a
// warning, never fatal.
func (m *AnnotationMerger) mergeDiscrete(log *zerolog.Logger, rec *recording.Recording, label, channels string) Outcome {
	if len(label) >= prefixLen {
		rest := strings.TrimPrefix(label[prefixLen:], "_")
		switch strings.ToLower(label[:prefixLen]) {
		case "chan":
			rec.Marks.AddChanMark("chan_"+rest, channels)
			return Outcome{Label: label, Kind: OutcomeMatched}
		case "comp":
			rec.Marks.AddCompMark("comp_"+rest, channels)
			return Outcome{Label: label, Kind: OutcomeMatched}
		}
	}

	log.Warn().
		Str("label", label).
		Msg("discrete marker kind not recognized, dropped")
	return Outcome{Label: label, Kind: OutcomeUnclassified}
}

// parseSeconds interprets one onset/duration cell. Empty cells, the BIDS
// n/a placeholder, unparsable text, and NaN all mean "no value".
func parseSeconds(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "n/a") {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
