// Package sidecar loads the external tables and companion files that one
// BIDS recording carries alongside its signal data: delimited event,
// electrode, and annotation tables, JSON metadata documents, numeric
// matrices, and the packed-binary mark supplement. Loads are read-only
// and release their file handle before returning.
package sidecar

import "strings"

// Kind tags a sidecar table with the merge it feeds.
type Kind int

// Table kinds handled by the loader.
const (
	Events Kind = iota
	Electrodes
	Annotations
)

// String returns the BIDS suffix for the kind.
func (k Kind) String() string {
	switch k {
	case Events:
		return "events"
	case Electrodes:
		return "electrodes"
	case Annotations:
		return "annotations"
	default:
		return "unknown"
	}
}

// requiredColumns lists the columns a table must carry for the merge that
// consumes it to be meaningful. This is the full extent of BIDS checking
// done here; nothing dataset-level is validated.
var requiredColumns = map[Kind][]string{
	Events:      {"value"},
	Electrodes:  {"name", "x", "y", "z"},
	Annotations: {"onset", "duration", "label", "channels"},
}

// Table is a row-oriented table of named columns.
type Table struct {
	Path    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table over the given header and rows.
func NewTable(path string, columns []string, rows [][]string) *Table {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		columns[i] = name
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return &Table{Path: path, Columns: columns, Rows: rows, index: index}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// HasColumn reports whether the table carries the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column's cells, whitespace-trimmed, and whether
// the column exists.
func (t *Table) Column(name string) ([]string, bool) {
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			cells[i] = strings.TrimSpace(row[idx])
		}
	}
	return cells, true
}

// Cell returns the trimmed cell at the given row for the named column.
func (t *Table) Cell(row int, name string) (string, bool) {
	idx, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || idx >= len(t.Rows[row]) {
		return "", false
	}
	return strings.TrimSpace(t.Rows[row][idx]), true
}
