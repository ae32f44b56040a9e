package reconcile

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

func writeICAFixtures(t *testing.T) (weightsPath, spherePath string) {
	t.Helper()
	dir := t.TempDir()

	weightsPath = filepath.Join(dir, "sub-01_ica_weights.tsv")
	require.NoError(t, os.WriteFile(weightsPath,
		[]byte("0.1\t0.2\t0.3\n0.4\t0.5\t0.6\n"), 0o644))

	spherePath = filepath.Join(dir, "sub-01_ica_sphere.tsv")
	require.NoError(t, os.WriteFile(spherePath,
		[]byte("1\t0\t0\n0\t1\t0\n0\t0\t1\n"), 0o644))

	companion := filepath.Join(dir, "sub-01_ica_weights.json")
	require.NoError(t, os.WriteFile(companion,
		[]byte(`{"icachansind": [1, 2, 3]}`), 0o644))

	return weightsPath, spherePath
}

func TestICABothSupplied(t *testing.T) {
	weightsPath, spherePath := writeICAFixtures(t)
	rec := testRecording("Cz", "Fz", "Pz")

	attached, err := ICA(context.Background(), rec, weightsPath, spherePath, recording.NewCheckset())
	require.NoError(t, err)
	assert.True(t, attached)

	require.NotNil(t, rec.ICA)
	assert.Equal(t, 2, rec.ICA.Components())
	assert.Equal(t, []int{0, 1, 2}, rec.ICA.ChannelIndices)
	assert.Equal(t, recording.Matrix{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}, rec.ICA.Weights)
	assert.True(t, rec.ICA.Sphere.Square())
}

func TestICAAllOrNothing(t *testing.T) {
	weightsPath, spherePath := writeICAFixtures(t)

	tests := []struct {
		name    string
		weights string
		sphere  string
	}{
		{name: "neither"},
		{name: "weights only", weights: weightsPath},
		{name: "sphere only", sphere: spherePath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecording("Cz", "Fz", "Pz")
			attached, err := ICA(context.Background(), rec, tt.weights, tt.sphere, recording.NewCheckset())
			require.NoError(t, err)
			assert.False(t, attached)
			assert.Nil(t, rec.ICA)
		})
	}
}

func TestICAMissingCompanion(t *testing.T) {
	dir := t.TempDir()
	weightsPath := filepath.Join(dir, "w.tsv")
	spherePath := filepath.Join(dir, "s.tsv")
	require.NoError(t, os.WriteFile(weightsPath, []byte("1\n"), 0o644))
	require.NoError(t, os.WriteFile(spherePath, []byte("1\n"), 0o644))

	rec := testRecording("Cz")
	_, err := ICA(context.Background(), rec, weightsPath, spherePath, recording.NewCheckset())
	require.Error(t, err)
	assert.True(t, errors.IsMissingFile(err))
}
