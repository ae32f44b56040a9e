package bidsmerge

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/reconcile"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// Ingest implements Ingestor. The merges run in a fixed order
// (electrodes, events, ICA, annotations), each one synchronously to
// completion. Fatal errors abort the call; the recording may already
// carry earlier merges and must then be discarded by the caller.
func (in *ingestor) Ingest(ctx context.Context, dataPath string) (*recording.Recording, *Result, error) {
	c := in.config
	rec := c.rec
	if rec == nil {
		return nil, nil, &errors.ValidationError{
			Field:   "recording",
			Message: "no recording configured, use WithRecording",
		}
	}

	runID := uuid.NewString()
	ctx = logging.WithLogger(ctx, c.logger)
	ctx = logging.WithRunID(ctx, runID)
	log := logging.FromContext(ctx)

	result := NewResult()
	result.Metadata.RunID = runID

	log.Info().
		Str("data", dataPath).
		Int("channels", len(rec.Channels)).
		Int("events", len(rec.Events)).
		Msg("starting sidecar ingest")

	if err := in.mergeElectrodes(ctx, rec, dataPath, result); err != nil {
		return nil, nil, err
	}
	if err := in.mergeEvents(ctx, rec, dataPath, result); err != nil {
		return nil, nil, err
	}
	if err := in.mergeICA(ctx, rec, result); err != nil {
		return nil, nil, err
	}
	if err := in.mergeAnnotations(ctx, rec, result); err != nil {
		return nil, nil, err
	}

	if c.redraw && c.redrawFunc != nil {
		c.redrawFunc(rec)
	}

	result.Finalize()

	log.Info().
		Int("warnings", len(result.Warnings)).
		Dur("took", result.Metadata.Duration).
		Msg("sidecar ingest complete")

	return rec, result, nil
}

// resolveTablePath returns the table path to merge from, or "" when the
// merge should be skipped. An explicit path is returned as-is and its
// absence surfaces later as a fatal load error; a derived path is
// optional, so both an underivable data-file name and a derived file
// that does not exist mean skip.
func (in *ingestor) resolveTablePath(ctx context.Context, explicit, dataPath string, kind sidecar.Kind) string {
	if explicit != "" {
		return explicit
	}
	derived, err := sidecar.SidecarPath(dataPath, kind)
	if err != nil {
		logging.FromContext(ctx).Debug().
			Str("data", dataPath).
			Str("kind", kind.String()).
			Msg("sidecar path not derivable, skipping")
		return ""
	}
	if !sidecar.Exists(derived) {
		logging.FromContext(ctx).Debug().
			Str("path", derived).
			Str("kind", kind.String()).
			Msg("derived sidecar not present, skipping")
		return ""
	}
	return derived
}

func (in *ingestor) mergeElectrodes(ctx context.Context, rec *recording.Recording, dataPath string, result *Result) error {
	path := in.resolveTablePath(ctx, in.config.electrodesPath, dataPath, sidecar.Electrodes)
	if path == "" {
		return nil
	}

	table, err := in.config.loader.Load(path, sidecar.Electrodes)
	if err != nil {
		return err
	}

	before := len(rec.Fiducials)
	outcomes, err := reconcile.Electrodes(ctx, rec, table)
	if err != nil {
		return err
	}

	result.ElectrodeOutcomes = outcomes
	result.FiducialsAdded = len(rec.Fiducials) - before
	result.AddSource(path)
	for _, o := range outcomes {
		if o.Kind == reconcile.OutcomeUnmatched {
			result.AddWarning(fmt.Sprintf("channel %q has no electrode row, position left unset", o.Label))
		}
	}

	return in.config.rebuilder.Rebuild(rec)
}

func (in *ingestor) mergeEvents(ctx context.Context, rec *recording.Recording, dataPath string, result *Result) error {
	path := in.resolveTablePath(ctx, in.config.eventsPath, dataPath, sidecar.Events)
	if path == "" {
		return nil
	}

	table, err := in.config.loader.Load(path, sidecar.Events)
	if err != nil {
		return err
	}

	relabeled, err := reconcile.Events(ctx, rec, table)
	if err != nil {
		return err
	}

	result.EventsRelabeled = relabeled
	result.AddSource(path)
	return nil
}

func (in *ingestor) mergeICA(ctx context.Context, rec *recording.Recording, result *Result) error {
	weights, sphere := in.config.icaWeights, in.config.icaSphere
	if weights == "" && sphere == "" {
		return nil
	}

	attached, err := reconcile.ICA(ctx, rec, weights, sphere, in.config.rebuilder)
	if err != nil {
		return err
	}

	result.ICAAttached = attached
	if attached {
		result.AddSource(weights)
		result.AddSource(sphere)
		return nil
	}

	// Exactly one of the pair was given: a diagnostic, not an error.
	result.AddWarning("ica skipped: weights and sphering matrix must both be supplied")
	return nil
}

func (in *ingestor) mergeAnnotations(ctx context.Context, rec *recording.Recording, result *Result) error {
	path := in.config.annotations
	if path == "" {
		return nil
	}

	merger := reconcile.NewAnnotationMerger(in.config.loader, in.config.rebuilder, in.config.marksSupported)
	outcomes, err := merger.Merge(ctx, rec, path)
	if err != nil {
		return err
	}

	result.AnnotationOutcomes = outcomes
	result.AddSource(path)
	for _, o := range outcomes {
		if o.Kind == reconcile.OutcomeUnclassified {
			result.AddWarning(fmt.Sprintf("discrete marker %q not recognized, dropped", o.Label))
		}
	}

	if rec.Marks != nil {
		result.TimeMarks = len(rec.Marks.TimeInfo)
		result.ChanMarkKeys = len(rec.Marks.ChanMarks)
		result.CompMarkKeys = len(rec.Marks.CompMarks)
	}
	return nil
}
