package sidecar

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

const dataSuffix = "_eeg."

// SidecarPath derives a sidecar table path from the primary data file path
// by replacing the trailing `_eeg.<ext>` with `_<kind>.tsv`.
func SidecarPath(dataPath string, kind Kind) (string, error) {
	idx := strings.LastIndex(dataPath, dataSuffix)
	if idx < 0 || strings.ContainsRune(dataPath[idx:], os.PathSeparator) {
		return "", &errors.ValidationError{
			Field:   "dataPath",
			Value:   dataPath,
			Message: "does not end in _eeg.<ext>, cannot derive sidecar paths",
		}
	}
	return dataPath[:idx] + "_" + kind.String() + ".tsv", nil
}

// CompanionJSON derives the structured-metadata companion of a table or
// matrix file by swapping its extension for .json.
func CompanionJSON(tablePath string) string {
	return strings.TrimSuffix(tablePath, filepath.Ext(tablePath)) + ".json"
}

// CompanionBinary derives the packed-binary mark supplement of an
// annotation table by swapping its extension for .mrk.
func CompanionBinary(tablePath string) string {
	return strings.TrimSuffix(tablePath, filepath.Ext(tablePath)) + ".mrk"
}

// Exists reports whether a path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
