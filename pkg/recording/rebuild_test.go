package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

func testChannels(labels ...string) []Channel {
	channels := make([]Channel, len(labels))
	for i, label := range labels {
		channels[i] = Channel{Label: label, Type: TypeEEG}
	}
	return channels
}

func TestChecksetSortsEvents(t *testing.T) {
	rec := &Recording{
		Events: []Event{
			{Latency: 30, Type: "c"},
			{Latency: 10, Type: "a"},
			{Latency: 20, Type: "b"},
		},
	}

	require.NoError(t, NewCheckset().Rebuild(rec))

	assert.Equal(t, []Event{
		{Latency: 10, Type: "a"},
		{Latency: 20, Type: "b"},
		{Latency: 30, Type: "c"},
	}, rec.Events)
}

func TestChecksetValidatesICA(t *testing.T) {
	tests := []struct {
		name string
		ica  *Decomposition
		ok   bool
	}{
		{
			name: "consistent decomposition",
			ica: &Decomposition{
				Weights:        Matrix{{1, 2, 3}, {4, 5, 6}},
				Sphere:         Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				ChannelIndices: []int{0, 1, 2},
			},
			ok: true,
		},
		{
			name: "non-square sphere",
			ica: &Decomposition{
				Weights:        Matrix{{1, 2, 3}},
				Sphere:         Matrix{{1, 0, 0}},
				ChannelIndices: []int{0, 1, 2},
			},
		},
		{
			name: "index count does not match weights columns",
			ica: &Decomposition{
				Weights:        Matrix{{1, 2, 3}},
				Sphere:         Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				ChannelIndices: []int{0, 1},
			},
		},
		{
			name: "sphere dimension does not match index count",
			ica: &Decomposition{
				Weights:        Matrix{{1, 2, 3}},
				Sphere:         Matrix{{1, 0}, {0, 1}},
				ChannelIndices: []int{0, 1, 2},
			},
		},
		{
			name: "index out of channel range",
			ica: &Decomposition{
				Weights:        Matrix{{1, 2, 3}},
				Sphere:         Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
				ChannelIndices: []int{0, 1, 7},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recording{
				Channels: testChannels("Cz", "Fz", "Pz"),
				ICA:      tt.ica,
			}
			err := NewCheckset().Rebuild(rec)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsSchemaMismatch(err))
		})
	}
}

func TestChecksetNilRecording(t *testing.T) {
	err := NewCheckset().Rebuild(nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
