package sidecar

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

// icaDescriptor is the companion document of an ICA weights file. The
// index list is 1-based in the file.
type icaDescriptor struct {
	Icachansind []int `yaml:"icachansind"`
}

// annotationDescriptor is the companion document of an annotation table.
type annotationDescriptor struct {
	Columns []string `yaml:"Columns"`
}

// Manifest is the channel-layout document next to the primary data file.
// The signal decoder is an external collaborator; the CLI builds the
// initial recording from this instead.
type Manifest struct {
	SamplingFrequency float64  `yaml:"SamplingFrequency"`
	SampleCount       int      `yaml:"SampleCount"`
	ChannelLabels     []string `yaml:"ChannelLabels"`

	// EventOnsets carries the decoder's event latencies in seconds, in
	// recording order. Types start empty and are filled by relabeling.
	EventOnsets []float64 `yaml:"EventOnsets"`
}

// LoadChannelIndices reads the channel-index list from an ICA companion
// document and converts it to 0-based indices.
func LoadChannelIndices(path string) ([]int, error) {
	var doc icaDescriptor
	if err := loadDocument(path, "ica companion", &doc); err != nil {
		return nil, err
	}
	if len(doc.Icachansind) == 0 {
		return nil, errors.NewSchemaError(path, "icachansind", "empty or absent in ica companion")
	}
	indices := make([]int, len(doc.Icachansind))
	for i, idx := range doc.Icachansind {
		indices[i] = idx - 1
	}
	return indices, nil
}

// LoadColumns reads the Columns list from an annotation companion
// document. Annotation ingest treats a missing companion as fatal.
func LoadColumns(path string) ([]string, error) {
	var doc annotationDescriptor
	if err := loadDocument(path, "annotation companion", &doc); err != nil {
		return nil, err
	}
	if len(doc.Columns) == 0 {
		return nil, errors.NewSchemaError(path, "Columns", "empty or absent in annotation companion")
	}
	return doc.Columns, nil
}

// LoadManifest reads the channel-layout manifest for a data file.
func LoadManifest(path string) (*Manifest, error) {
	var doc Manifest
	if err := loadDocument(path, "channel manifest", &doc); err != nil {
		return nil, err
	}
	if doc.SamplingFrequency <= 0 || len(doc.ChannelLabels) == 0 {
		return nil, errors.NewSchemaError(path, "",
			"channel manifest needs SamplingFrequency and ChannelLabels")
	}
	return &doc, nil
}

// loadDocument decodes one structured-metadata document. BIDS companions
// are JSON; the YAML decoder covers them since YAML 1.2 is a superset.
func loadDocument(path, kind string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewMissingFileError(kind, path)
		}
		return errors.WrapIO("read", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errors.WrapParse("json", path, err)
	}
	return nil
}
