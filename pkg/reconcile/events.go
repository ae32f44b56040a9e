package reconcile

import (
	"context"
	"fmt"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// Events overwrites each event's type label with the corresponding entry
// of the table's value column, positionally. Prior labels are replaced,
// not merged. A value column whose length differs from the recording's
// event count is a fatal schema mismatch; truncation or padding would
// silently misalign labels.
func Events(ctx context.Context, rec *recording.Recording, table *sidecar.Table) (int, error) {
	values, _ := table.Column("value")

	if len(values) != len(rec.Events) {
		return 0, errors.NewSchemaError(table.Path, "value",
			fmt.Sprintf("table has %d values but recording has %d events", len(values), len(rec.Events)))
	}

	for i := range rec.Events {
		rec.Events[i].Type = values[i]
	}

	logging.FromContext(ctx).Info().
		Int("events", len(values)).
		Msg("relabeled events from sidecar table")

	return len(values), nil
}
