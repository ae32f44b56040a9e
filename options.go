package bidsmerge

import (
	"github.com/rs/zerolog"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/logging"
	"github.com/neurokit/bidsmerge/pkg/recording"
	"github.com/neurokit/bidsmerge/pkg/sidecar"
)

// RedrawFunc refreshes an external display of the recording. The default
// is a no-op; GUI concerns live outside this module.
type RedrawFunc func(rec *recording.Recording)

// config holds an ingestor's resolved options.
type config struct {
	rec *recording.Recording

	// Sidecar locations. Electrodes and events fall back to paths
	// derived from the data file when not set explicitly; ICA and
	// annotations only run when requested.
	electrodesPath string
	eventsPath     string
	icaWeights     string
	icaSphere      string
	annotations    string

	loader         sidecar.Loader
	rebuilder      recording.Rebuilder
	redraw         bool
	redrawFunc     RedrawFunc
	marksSupported bool
	logger         *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		loader:         sidecar.NewTSVLoader(),
		rebuilder:      recording.NewCheckset(),
		redraw:         true,
		marksSupported: true,
		logger:         logging.Default(),
	}
}

// Option is a function that configures an Ingestor.
type Option func(*config) error

func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithRecording sets the decoder-produced recording the ingest mutates.
// Required: an ingest call without a recording fails validation.
func WithRecording(rec *recording.Recording) Option {
	return func(c *config) error {
		if rec == nil {
			return &errors.ValidationError{Field: "recording", Message: "cannot be nil"}
		}
		c.rec = rec
		return nil
	}
}

// WithElectrodes sets an explicit electrodes-table path instead of the
// derived one. An explicit path that does not exist is fatal.
func WithElectrodes(path string) Option {
	return func(c *config) error {
		c.electrodesPath = path
		return nil
	}
}

// WithEvents sets an explicit events-table path instead of the derived one.
func WithEvents(path string) Option {
	return func(c *config) error {
		c.eventsPath = path
		return nil
	}
}

// WithICA requests an ICA merge from the given matrix files. Supplying
// only one of the pair skips the decomposition with a diagnostic.
func WithICA(weightsPath, spherePath string) Option {
	return func(c *config) error {
		c.icaWeights = weightsPath
		c.icaSphere = spherePath
		return nil
	}
}

// WithAnnotations requests an annotation merge from the given table.
func WithAnnotations(path string) Option {
	return func(c *config) error {
		c.annotations = path
		return nil
	}
}

// WithLoader overrides the sidecar table loader.
func WithLoader(loader sidecar.Loader) Option {
	return func(c *config) error {
		if loader == nil {
			return &errors.ValidationError{Field: "loader", Message: "cannot be nil"}
		}
		c.loader = loader
		return nil
	}
}

// WithRebuilder overrides the consistency rebuilder run after structural
// changes.
func WithRebuilder(rb recording.Rebuilder) Option {
	return func(c *config) error {
		if rb == nil {
			return &errors.ValidationError{Field: "rebuilder", Message: "cannot be nil"}
		}
		c.rebuilder = rb
		return nil
	}
}

// WithRedraw configures whether the redraw hook fires after a successful
// ingest. Defaults to on.
func WithRedraw(enabled bool) Option {
	return func(c *config) error {
		c.redraw = enabled
		return nil
	}
}

// WithRedrawFunc sets the external display-refresh hook.
func WithRedrawFunc(fn RedrawFunc) Option {
	return func(c *config) error {
		c.redrawFunc = fn
		return nil
	}
}

// WithoutMarkSupport declares that the mark-handling subsystem is absent.
// An annotation merge requested in this state fails the whole ingest.
func WithoutMarkSupport() Option {
	return func(c *config) error {
		c.marksSupported = false
		return nil
	}
}

// WithLogger sets the logger used for the ingest's warning channel.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "cannot be nil"}
		}
		c.logger = logger
		return nil
	}
}
