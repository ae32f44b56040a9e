package recording

import (
	"fmt"
	"sort"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

// Rebuilder restores a recording's internal consistency after a structural
// change. Every merge that alters channel, ICA, or mark structure runs one.
type Rebuilder interface {
	Rebuild(rec *Recording) error
}

// Checkset is the default Rebuilder. It re-sorts events by latency,
// validates the ICA decomposition against the channel layout, and
// normalizes mark-set buckets. A failed check is fatal for the ingest
// call that triggered it.
type Checkset struct{}

// NewCheckset returns the default consistency rebuilder.
func NewCheckset() *Checkset {
	return &Checkset{}
}

// Rebuild implements Rebuilder.
func (c *Checkset) Rebuild(rec *Recording) error {
	if rec == nil {
		return &errors.ValidationError{Field: "recording", Message: "cannot be nil"}
	}

	sort.SliceStable(rec.Events, func(i, j int) bool {
		return rec.Events[i].Latency < rec.Events[j].Latency
	})

	if ica := rec.ICA; ica != nil {
		if !ica.Sphere.Square() {
			return errors.NewSchemaError("ica sphere", "",
				fmt.Sprintf("sphere matrix is %dx%d, expected square", ica.Sphere.Rows(), ica.Sphere.Cols()))
		}
		if got, want := ica.Weights.Cols(), len(ica.ChannelIndices); got != want {
			return errors.NewSchemaError("ica weights", "",
				fmt.Sprintf("weights has %d columns but %d channel indices were declared", got, want))
		}
		// The sphering matrix operates on the used channels, so its
		// dimension must equal the index count.
		if got, want := ica.Sphere.Rows(), len(ica.ChannelIndices); got != want {
			return errors.NewSchemaError("ica sphere", "",
				fmt.Sprintf("sphere matrix is %dx%d but %d channel indices were declared", got, got, want))
		}
		for _, idx := range ica.ChannelIndices {
			if idx < 0 || idx >= len(rec.Channels) {
				return errors.NewSchemaError("ica channel indices", "",
					fmt.Sprintf("index %d out of range for %d channels", idx, len(rec.Channels)))
			}
		}
	}

	if m := rec.Marks; m != nil {
		if m.ChanMarks == nil {
			m.ChanMarks = make(map[string][]string)
		}
		if m.CompMarks == nil {
			m.CompMarks = make(map[string][]string)
		}
	}

	return nil
}
