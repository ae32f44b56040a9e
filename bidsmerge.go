// Package bidsmerge merges the sidecar files of a BIDS neurophysiology
// recording (event tables, electrode-position tables, ICA matrices, and
// annotation tables) into one consistent in-memory recording object.
// The low-level signal decoder is an external collaborator: callers
// supply the initial recording (channel labels, events, sample rate) and
// bidsmerge reconciles every requested sidecar against it.
package bidsmerge

import (
	"context"
	"fmt"

	"github.com/neurokit/bidsmerge/pkg/recording"
)

// Ingestor merges sidecar files into a recording.
type Ingestor interface {
	// Ingest reconciles the sidecars of the data file at dataPath into
	// the configured recording and returns it together with the merge
	// result. On error the recording is indeterminate and must be
	// discarded; partial mutation is not rolled back.
	Ingest(ctx context.Context, dataPath string) (*recording.Recording, *Result, error)
}

// ingestor is the internal implementation of the Ingestor interface.
type ingestor struct {
	config *config
}

// New creates a new Ingestor with the given options.
func New(opts ...Option) (Ingestor, error) {
	in := &ingestor{config: defaultConfig()}

	if err := in.config.apply(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	return in, nil
}

// Ingest is a convenience wrapper that builds an Ingestor and runs one
// ingest call.
func Ingest(ctx context.Context, dataPath string, opts ...Option) (*recording.Recording, *Result, error) {
	in, err := New(opts...)
	if err != nil {
		return nil, nil, err
	}
	return in.Ingest(ctx, dataPath)
}
