package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTSVLoaderLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sub-01_electrodes.tsv",
		"name\tx\ty\tz\n"+
			" Cz \t0\t0\t1\n"+
			"Fz\t0\t1\t0\n")

	table, err := NewTSVLoader().Load(path, Electrodes)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"name", "x", "y", "z"}, table.Columns)

	// Cells come back whitespace-trimmed.
	names, ok := table.Column("name")
	require.True(t, ok)
	assert.Equal(t, []string{"Cz", "Fz"}, names)

	cell, ok := table.Cell(0, "z")
	require.True(t, ok)
	assert.Equal(t, "1", cell)
}

func TestTSVLoaderMissingFile(t *testing.T) {
	_, err := NewTSVLoader().Load(filepath.Join(t.TempDir(), "nope.tsv"), Events)
	require.Error(t, err)
	assert.True(t, errors.IsMissingFile(err))
}

func TestTSVLoaderRequiredColumns(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		header  string
		wantErr bool
	}{
		{name: "events needs value", kind: Events, header: "onset\tduration", wantErr: true},
		{name: "events with value", kind: Events, header: "onset\tvalue"},
		{name: "electrodes missing z", kind: Electrodes, header: "name\tx\ty", wantErr: true},
		{name: "annotations complete", kind: Annotations, header: "onset\tduration\tlabel\tchannels"},
		{name: "annotations missing channels", kind: Annotations, header: "onset\tduration\tlabel", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "table.tsv", tt.header+"\n")
			_, err := NewTSVLoader().Load(path, tt.kind)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsSchemaMismatch(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTSVLoaderEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.tsv", "")
	_, err := NewTSVLoader().Load(path, Events)
	require.Error(t, err)
}
