package app

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/neurokit/bidsmerge"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// NewIngestCommand creates the ingest subcommand.
func (a *App) NewIngestCommand() *cobra.Command {
	var (
		electrodes  string
		events      string
		icaWeights  string
		icaSphere   string
		annotations string
		noRedraw    bool
	)

	cmd := &cobra.Command{
		Use:   "ingest <dataPath>",
		Short: "Merge a recording's sidecar files",
		Long: `Ingest reads the channel manifest next to the data file, then merges the
requested sidecars into the recording. Electrode and event tables default
to the BIDS-derived paths; ICA and annotation merges run only when asked
for explicitly.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dataPath := args[0]

			rec, err := loadInitialRecording(dataPath)
			if err != nil {
				return err
			}

			opts := []bidsmerge.Option{
				bidsmerge.WithRecording(rec),
				bidsmerge.WithLogger(a.Logger()),
				bidsmerge.WithRedraw(a.config.Redraw && !noRedraw),
			}
			if electrodes != "" {
				opts = append(opts, bidsmerge.WithElectrodes(electrodes))
			}
			if events != "" {
				opts = append(opts, bidsmerge.WithEvents(events))
			}
			if icaWeights != "" || icaSphere != "" {
				opts = append(opts, bidsmerge.WithICA(icaWeights, icaSphere))
			}
			if annotations != "" {
				opts = append(opts, bidsmerge.WithAnnotations(annotations))
			}

			ctx := logging.WithLogger(cmd.Context(), a.Logger())
			merged, result, err := bidsmerge.Ingest(ctx, dataPath, opts...)
			if err != nil {
				return err
			}

			printSummary(cmd, merged, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&electrodes, "electrodes", "", "electrodes table path (default: derived from data path)")
	cmd.Flags().StringVar(&events, "events", "", "events table path (default: derived from data path)")
	cmd.Flags().StringVar(&icaWeights, "ica-weights", "", "ica weights matrix path")
	cmd.Flags().StringVar(&icaSphere, "ica-sphere", "", "ica sphering matrix path")
	cmd.Flags().StringVar(&annotations, "annotations", "", "annotations table path")
	cmd.Flags().BoolVar(&noRedraw, "no-redraw", false, "skip the display refresh hook")

	return cmd
}

// loadInitialRecording builds the recording the merges mutate from the
// channel manifest next to the data file. The signal decoder itself is
// outside this tool.
func loadInitialRecording(dataPath string) (*recording.Recording, error) {
	manifest, err := sidecar.LoadManifest(sidecar.CompanionJSON(dataPath))
	if err != nil {
		return nil, err
	}

	rec := &recording.Recording{
		Channels:   make([]recording.Channel, len(manifest.ChannelLabels)),
		SampleRate: manifest.SamplingFrequency,
		Samples:    manifest.SampleCount,
	}
	for i, label := range manifest.ChannelLabels {
		rec.Channels[i] = recording.Channel{Label: label, Type: recording.TypeEEG}
	}
	for _, onset := range manifest.EventOnsets {
		rec.Events = append(rec.Events, recording.Event{
			Latency: math.Round(onset * manifest.SamplingFrequency),
		})
	}
	return rec, nil
}

func printSummary(cmd *cobra.Command, rec *recording.Recording, result *bidsmerge.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "run %s finished in %s\n", result.Metadata.RunID, result.Metadata.Duration.Round(0))
	fmt.Fprintf(out, "  channels: %d data, %d fiducial\n", len(rec.Channels), len(rec.Fiducials))
	fmt.Fprintf(out, "  electrodes: %d matched, %d unmatched, %d added as fiducials\n",
		result.ElectrodesMatched, result.ElectrodesUnmatched, result.FiducialsAdded)
	fmt.Fprintf(out, "  events relabeled: %d\n", result.EventsRelabeled)
	fmt.Fprintf(out, "  ica attached: %v\n", result.ICAAttached)
	if rec.Marks != nil {
		fmt.Fprintf(out, "  marks: %d time tracks, %d channel keys, %d component keys\n",
			result.TimeMarks, result.ChanMarkKeys, result.CompMarkKeys)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "  warning: %s\n", warning)
	}
}
