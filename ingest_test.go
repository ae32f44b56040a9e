package bidsmerge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/recording"
)

func newTestRecording() *recording.Recording {
	return &recording.Recording{
		Channels: []recording.Channel{
			{Label: "Cz", Type: recording.TypeEEG},
			{Label: "Fz", Type: recording.TypeEEG},
			{Label: "X1", Type: recording.TypeEEG},
		},
		Events: []recording.Event{
			{Latency: 100, Type: "n/a"},
			{Latency: 200, Type: "n/a"},
		},
		SampleRate: 10,
		Samples:    500,
	}
}

// writeBIDSDir lays out a minimal subject directory and returns the data
// file path the sidecar paths derive from.
func writeBIDSDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("sub-01_task-rest_electrodes.tsv",
		"name\tx\ty\tz\n"+
			"Cz\t0\t0\t1\n"+
			"Fz\t0\t1\t0\n"+
			"Nz\t1\t0\t0\n")
	write("sub-01_task-rest_events.tsv",
		"onset\tvalue\n"+
			"10.0\tgo\n"+
			"20.0\tstop\n")

	return filepath.Join(dir, "sub-01_task-rest_eeg.edf")
}

func TestIngestDerivedSidecars(t *testing.T) {
	dataPath := writeBIDSDir(t)
	rec := newTestRecording()

	redrawn := false
	merged, result, err := Ingest(context.Background(), dataPath,
		WithRecording(rec),
		WithRedrawFunc(func(*recording.Recording) { redrawn = true }),
	)
	require.NoError(t, err)
	require.Same(t, rec, merged)

	// Electrodes: Cz and Fz positioned, X1 unmatched, Nz made fiducial.
	assert.Equal(t, 2, result.ElectrodesMatched)
	assert.Equal(t, 1, result.ElectrodesUnmatched)
	assert.Equal(t, 1, result.FiducialsAdded)
	require.Len(t, merged.Fiducials, 1)
	assert.Equal(t, "Nz", merged.Fiducials[0].Label)

	// Events relabeled positionally.
	assert.Equal(t, 2, result.EventsRelabeled)
	assert.Equal(t, "go", merged.Events[0].Type)
	assert.Equal(t, "stop", merged.Events[1].Type)

	assert.False(t, result.ICAAttached)
	assert.True(t, redrawn)
	assert.True(t, result.HasWarnings()) // the unmatched X1
	assert.NotEmpty(t, result.Metadata.RunID)
	assert.Len(t, result.Metadata.Sources, 2)
}

func TestIngestMissingDerivedSidecarsSkipped(t *testing.T) {
	// No sidecar files exist next to the data path at all.
	dataPath := filepath.Join(t.TempDir(), "sub-02_task-rest_eeg.edf")
	rec := newTestRecording()

	_, result, err := Ingest(context.Background(), dataPath, WithRecording(rec))
	require.NoError(t, err)

	assert.Empty(t, result.Metadata.Sources)
	assert.Equal(t, 0, result.EventsRelabeled)
	assert.Nil(t, rec.Channels[0].Position)
}

func TestIngestNonBIDSDataPathWithExplicitSidecar(t *testing.T) {
	// The data file is not named *_eeg.<ext>, so no sidecar path can be
	// derived from it. Explicitly supplied sidecars still merge; the
	// underivable ones are skipped rather than failing the ingest.
	dir := t.TempDir()
	electrodes := filepath.Join(dir, "cap64.tsv")
	require.NoError(t, os.WriteFile(electrodes,
		[]byte("name\tx\ty\tz\nCz\t0\t0\t1\n"), 0o644))

	rec := newTestRecording()
	_, result, err := Ingest(context.Background(), filepath.Join(dir, "recording.edf"),
		WithRecording(rec),
		WithElectrodes(electrodes),
	)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ElectrodesMatched)
	assert.Equal(t, []string{electrodes}, result.Metadata.Sources)
	assert.Equal(t, 0, result.EventsRelabeled)
}

func TestIngestExplicitMissingSidecarIsFatal(t *testing.T) {
	dataPath := writeBIDSDir(t)

	_, _, err := Ingest(context.Background(), dataPath,
		WithRecording(newTestRecording()),
		WithElectrodes(filepath.Join(t.TempDir(), "nope.tsv")),
	)
	require.Error(t, err)
	assert.True(t, errors.IsMissingFile(err))
}

func TestIngestIncompleteICAPairWarns(t *testing.T) {
	dataPath := writeBIDSDir(t)
	weights := filepath.Join(t.TempDir(), "w.tsv")
	require.NoError(t, os.WriteFile(weights, []byte("1\n"), 0o644))

	_, result, err := Ingest(context.Background(), dataPath,
		WithRecording(newTestRecording()),
		WithICA(weights, ""),
	)
	require.NoError(t, err)

	assert.False(t, result.ICAAttached)
	assert.Contains(t, result.Warnings, "ica skipped: weights and sphering matrix must both be supplied")
}

func TestIngestAnnotationsWithoutMarkSupport(t *testing.T) {
	dataPath := writeBIDSDir(t)
	dir := t.TempDir()
	annoPath := filepath.Join(dir, "sub-01_annotations.tsv")
	require.NoError(t, os.WriteFile(annoPath,
		[]byte("onset\tduration\tlabel\tchannels\n0.1\t0.1\tblink\t\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub-01_annotations.json"),
		[]byte(`{"Columns": ["onset", "duration", "label", "channels"]}`), 0o644))

	// With mark support the merge succeeds.
	rec := newTestRecording()
	_, result, err := Ingest(context.Background(), dataPath,
		WithRecording(rec),
		WithAnnotations(annoPath),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TimeMarks)
	require.NotNil(t, rec.Marks)

	// Without it the whole ingest fails.
	_, _, err = Ingest(context.Background(), dataPath,
		WithRecording(newTestRecording()),
		WithAnnotations(annoPath),
		WithoutMarkSupport(),
	)
	require.Error(t, err)
	assert.True(t, errors.IsCapabilityUnavailable(err))
}

func TestIngestRequiresRecording(t *testing.T) {
	_, _, err := Ingest(context.Background(), "sub-01_eeg.edf")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewRejectsNilOptions(t *testing.T) {
	_, err := New(WithRecording(nil))
	require.Error(t, err)

	_, err = New(WithLoader(nil))
	require.Error(t, err)

	_, err = New(WithRebuilder(nil))
	require.Error(t, err)
}
