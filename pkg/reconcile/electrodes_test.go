package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

func electrodeTable(rows ...[]string) *sidecar.Table {
	return sidecar.NewTable("electrodes.tsv", []string{"name", "x", "y", "z"}, rows)
}

func testRecording(labels ...string) *recording.Recording {
	rec := &recording.Recording{SampleRate: 100, Samples: 1000}
	for _, label := range labels {
		rec.Channels = append(rec.Channels, recording.Channel{Label: label, Type: recording.TypeEEG})
	}
	return rec
}

func TestElectrodesReconciliation(t *testing.T) {
	rec := testRecording("Cz", "Fz", "X1")
	table := electrodeTable(
		[]string{"Cz", "0", "0", "1"},
		[]string{"Fz", "0", "1", "0"},
		[]string{"Nz", "1", "0", "0"},
	)

	outcomes, err := Electrodes(context.Background(), rec, table)
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.Equal(t, Outcome{Label: "Cz", Kind: OutcomeMatched}, outcomes[0])
	assert.Equal(t, Outcome{Label: "Fz", Kind: OutcomeMatched}, outcomes[1])
	assert.Equal(t, Outcome{Label: "X1", Kind: OutcomeUnmatched}, outcomes[2])

	assert.Equal(t, &recording.Position{X: 0, Y: 0, Z: 1}, rec.Channels[0].Position)
	assert.Equal(t, &recording.Position{X: 0, Y: 1, Z: 0}, rec.Channels[1].Position)
	assert.Nil(t, rec.Channels[2].Position)

	// Nz never matched a primary channel and becomes one fiducial.
	require.Len(t, rec.Fiducials, 1)
	fid := rec.Fiducials[0]
	assert.Equal(t, "Nz", fid.Label)
	assert.Equal(t, &recording.Position{X: 1, Y: 0, Z: 0}, fid.Position)
	assert.Equal(t, recording.TypeFiducial, fid.Type)
	assert.False(t, fid.IsData())
}

func TestElectrodesEveryRowRepresentedOnce(t *testing.T) {
	rec := testRecording("Cz", "Fz")
	table := electrodeTable(
		[]string{"Cz", "0", "0", "1"},
		[]string{"LPA", "-1", "0", "0"},
		[]string{"RPA", "1", "0", "0"},
		[]string{"Nz", "0", "1", "0"},
	)

	_, err := Electrodes(context.Background(), rec, table)
	require.NoError(t, err)

	// One row consumed into Cz, three emitted as fiducials: none lost,
	// none duplicated.
	consumed := 0
	for _, ch := range rec.Channels {
		if ch.Position != nil {
			consumed++
		}
	}
	assert.Equal(t, 1, consumed)
	assert.Len(t, rec.Fiducials, 3)
}

func TestElectrodesFirstMatchWins(t *testing.T) {
	rec := testRecording("Cz")
	table := electrodeTable(
		[]string{"Cz", "1", "1", "1"},
		[]string{"Cz", "2", "2", "2"},
	)

	_, err := Electrodes(context.Background(), rec, table)
	require.NoError(t, err)

	assert.Equal(t, &recording.Position{X: 1, Y: 1, Z: 1}, rec.Channels[0].Position)
	// The duplicate row was never consumed and lands in the non-data set.
	require.Len(t, rec.Fiducials, 1)
	assert.Equal(t, &recording.Position{X: 2, Y: 2, Z: 2}, rec.Fiducials[0].Position)
}

func TestElectrodesTrimsAndMatchesCaseSensitively(t *testing.T) {
	rec := testRecording("Cz", "FZ")
	table := electrodeTable(
		[]string{"  Cz  ", "0", "0", "1"},
		[]string{"Fz", "0", "1", "0"}, // case differs from FZ, no match
	)

	outcomes, err := Electrodes(context.Background(), rec, table)
	require.NoError(t, err)

	assert.Equal(t, OutcomeMatched, outcomes[0].Kind)
	assert.Equal(t, OutcomeUnmatched, outcomes[1].Kind)
	require.Len(t, rec.Fiducials, 1)
	assert.Equal(t, "Fz", rec.Fiducials[0].Label)
}

func TestElectrodesMissingColumn(t *testing.T) {
	rec := testRecording("Cz")
	table := sidecar.NewTable("electrodes.tsv", []string{"x", "y", "z"}, [][]string{
		{"0", "0", "1"},
	})

	_, err := Electrodes(context.Background(), rec, table)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaMismatch(err))
	assert.Contains(t, err.Error(), "name")
}

func TestElectrodesBadCoordinate(t *testing.T) {
	rec := testRecording("Cz")
	table := electrodeTable([]string{"Cz", "0", "oops", "1"})

	_, err := Electrodes(context.Background(), rec, table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y coordinate")
}
