package sidecar

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/neurokit/bidsmerge/pkg/errors"
	"github.com/neurokit/bidsmerge/pkg/recording"
)

// LoadMatrix reads a whitespace-delimited numeric matrix, one row per
// line. Blank lines are skipped; ragged rows are a parse error.
func LoadMatrix(path string) (recording.Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError("matrix", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	var matrix recording.Matrix
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &errors.ParseError{
					Format:  "matrix",
					File:    path,
					Line:    lineNo,
					Message: fmt.Sprintf("invalid number %q", field),
					Err:     err,
				}
			}
			row[i] = v
		}
		if len(matrix) > 0 && len(row) != len(matrix[0]) {
			return nil, &errors.ParseError{
				Format:  "matrix",
				File:    path,
				Line:    lineNo,
				Message: fmt.Sprintf("row has %d values, expected %d", len(row), len(matrix[0])),
			}
		}
		matrix = append(matrix, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	if len(matrix) == 0 {
		return nil, errors.NewParseError("matrix", path, "empty matrix", nil)
	}
	return matrix, nil
}
