package bidsmerge

import (
	"time"

	"github.com/neurokit/bidsmerge/pkg/reconcile"
)

// Result represents the outcome of one ingest call.
type Result struct {
	// Electrode reconciliation
	ElectrodeOutcomes   []reconcile.Outcome
	ElectrodesMatched   int
	ElectrodesUnmatched int
	FiducialsAdded      int

	// Event relabeling
	EventsRelabeled int

	// ICA merge
	ICAAttached bool

	// Annotation merge
	AnnotationOutcomes []reconcile.Outcome
	TimeMarks          int
	ChanMarkKeys       int
	CompMarkKeys       int

	// Warnings collected from recoverable conditions. They never alter
	// the call's overall success.
	Warnings []string

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the ingest run.
type ResultMetadata struct {
	// RunID identifies the ingest run in logs.
	RunID string

	// StartTime when the ingest started
	StartTime time.Time

	// EndTime when the ingest completed
	EndTime time.Time

	// Duration of the ingest
	Duration time.Duration

	// Sources lists the sidecar files that were actually merged.
	Sources []string
}

// NewResult creates an initialized Result.
func NewResult() *Result {
	return &Result{
		Metadata: ResultMetadata{StartTime: time.Now()},
	}
}

// AddWarning records a recoverable condition.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// AddSource records a merged sidecar file.
func (r *Result) AddSource(path string) {
	r.Metadata.Sources = append(r.Metadata.Sources, path)
}

// Finalize stamps the end time and derives the outcome counts.
func (r *Result) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)

	r.ElectrodesMatched = reconcile.Count(r.ElectrodeOutcomes, reconcile.OutcomeMatched)
	r.ElectrodesUnmatched = reconcile.Count(r.ElectrodeOutcomes, reconcile.OutcomeUnmatched)
}

// HasWarnings reports whether any recoverable condition was recorded.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
