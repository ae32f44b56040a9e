package reconcile

import (
	"context"

	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// ICA loads a weights matrix, a sphering matrix, and the channel-index
// companion of the weights file, and attaches the decomposition to the
// recording. Completeness rule: both matrices or neither. With both paths
// empty this is a no-op; with exactly one a diagnostic is emitted and
// nothing is loaded. The pair check compares the weights path against
// the sphere path. The recording is rebuilt after
// attachment because channel and component bookkeeping depend on ICA
// presence.
func ICA(ctx context.Context, rec *recording.Recording, weightsPath, spherePath string, rb recording.Rebuilder) (bool, error) {
	log := logging.FromContext(ctx)

	if weightsPath == "" && spherePath == "" {
		return false, nil
	}
	if weightsPath == "" || spherePath == "" {
		log.Warn().
			Str("weights", weightsPath).
			Str("sphere", spherePath).
			Msg("ica needs both a weights and a sphering matrix, skipping decomposition")
		return false, nil
	}

	indices, err := sidecar.LoadChannelIndices(sidecar.CompanionJSON(weightsPath))
	if err != nil {
		return false, err
	}

	weights, err := sidecar.LoadMatrix(weightsPath)
	if err != nil {
		return false, err
	}
	sphere, err := sidecar.LoadMatrix(spherePath)
	if err != nil {
		return false, err
	}

	rec.ICA = &recording.Decomposition{
		Weights:        weights,
		Sphere:         sphere,
		ChannelIndices: indices,
	}

	if err := rb.Rebuild(rec); err != nil {
		return false, err
	}

	log.Info().
		Int("components", rec.ICA.Components()).
		Int("channels_used", len(indices)).
		Msg("attached ica decomposition")

	return true, nil
}
