package sidecar

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/neurokit/bidsmerge/pkg/errors"
)

// Loader reads a sidecar table from disk. Implementations abstract over
// parsing-dialect differences; the engine only ever sees a Table.
type Loader interface {
	Load(path string, kind Kind) (*Table, error)
}

// TSVLoader reads BIDS tab-separated tables. The first record is the
// header; every data record must match its width.
type TSVLoader struct{}

// NewTSVLoader returns the default table loader.
func NewTSVLoader() *TSVLoader {
	return &TSVLoader{}
}

// Load implements Loader. A missing file is a MissingFileError; a table
// lacking the kind's required columns is a SchemaError.
func (l *TSVLoader) Load(path string, kind Kind) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingFileError(kind.String(), path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '\t'
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError("tsv", path, "empty table", nil)
	}
	if err != nil {
		return nil, errors.WrapParse("tsv", path, err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("tsv", path, err)
		}
		rows = append(rows, record)
	}

	table := NewTable(path, header, rows)
	for _, col := range requiredColumns[kind] {
		if !table.HasColumn(col) {
			return nil, errors.NewSchemaError(path, col, "required for "+kind.String()+" merge")
		}
	}
	return table, nil
}
