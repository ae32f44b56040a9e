package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// electrodeRow is one parsed row of an electrodes table.
type electrodeRow struct {
	name     string
	position recording.Position
}

// Electrodes matches an electrode table's named rows to the recording's
// primary channels and assigns 3D coordinates. Names are trimmed and
// compared case-sensitively; the first table occurrence of a duplicated
// name wins. Channels with no table row keep a nil position and yield an
// unmatched outcome; table rows consumed by no channel each become one
// fiducial in the recording's non-data bucket, so every row is
// represented exactly once in the output.
func Electrodes(ctx context.Context, rec *recording.Recording, table *sidecar.Table) ([]Outcome, error) {
	log := logging.FromContext(ctx)

	rows, err := parseElectrodeRows(table)
	if err != nil {
		return nil, err
	}

	// Two passes: label lookup first, then consumption tracking, instead
	// of a used flag on each row.
	byName := make(map[string]int, len(rows))
	for i, row := range rows {
		if _, dup := byName[row.name]; !dup {
			byName[row.name] = i
		}
	}

	outcomes := make([]Outcome, 0, len(rec.Channels))
	consumed := make(map[int]bool, len(rows))

	for i := range rec.Channels {
		ch := &rec.Channels[i]
		idx, ok := byName[ch.Label]
		if !ok {
			log.Warn().
				Str("label", ch.Label).
				Msg("label not found, added to non-data set")
			outcomes = append(outcomes, Outcome{Label: ch.Label, Kind: OutcomeUnmatched})
			continue
		}
		pos := rows[idx].position
		ch.Position = &pos
		consumed[idx] = true
		outcomes = append(outcomes, Outcome{Label: ch.Label, Kind: OutcomeMatched})
	}

	// Unconsumed rows become fiducials. The template clones the first
	// primary channel's record so data and non-data entries share one
	// schema, then overwrites label, position, and type.
	var template recording.Channel
	if len(rec.Channels) > 0 {
		template = rec.Channels[0]
	}
	for i, row := range rows {
		if consumed[i] {
			continue
		}
		fid := template
		pos := row.position
		fid.Label = row.name
		fid.Position = &pos
		fid.Type = recording.TypeFiducial
		rec.Fiducials = append(rec.Fiducials, fid)

		log.Debug().
			Str("label", row.name).
			Msg("electrode row has no primary channel, stored as fiducial")
	}

	return outcomes, nil
}

func parseElectrodeRows(table *sidecar.Table) ([]electrodeRow, error) {
	// Loaders verify these up front, but tables can also be handed in
	// directly, so the contract is enforced here as well.
	for _, col := range []string{"name", "x", "y", "z"} {
		if !table.HasColumn(col) {
			return nil, errors.NewSchemaError(table.Path, col,
				"electrode table is missing a required column")
		}
	}
	names, _ := table.Column("name")

	rows := make([]electrodeRow, table.Len())
	for i := range rows {
		rows[i].name = strings.TrimSpace(names[i])
		for _, axis := range []string{"x", "y", "z"} {
			cell, _ := table.Cell(i, axis)
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &errors.ParseError{
					Format:  "tsv",
					File:    table.Path,
					Line:    i + 2, // 1-based, after header
					Message: fmt.Sprintf("invalid %s coordinate %q for %q", axis, cell, rows[i].name),
					Err:     err,
				}
			}
			switch axis {
			case "x":
				rows[i].position.X = v
			case "y":
				rows[i].position.Y = v
			case "z":
				rows[i].position.Z = v
			}
		}
	}
	return rows, nil
}
