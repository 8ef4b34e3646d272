// Package tabular provides the row/column view over uploaded CSV and XLSX files.
package tabular

import "strings"

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	header []string
	rows   [][]string
	index  map[string]int
}

// NewTable builds a table; header names are trimmed and the first occurrence of a name wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{
		header: make([]string, len(header)),
		rows:   rows,
		index:  make(map[string]int, len(header)),
	}
	for i, h := range header {
		name := strings.TrimSpace(h)
		t.header[i] = name
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
	return t
}

// Header returns the column names.
func (t *Table) Header() []string {
	return t.header
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.rows[i]}
}

// Cells flattens the header and every data row into one slice, row by row.
func (t *Table) Cells() []string {
	out := make([]string, 0, len(t.header)*(len(t.rows)+1))
	out = append(out, t.header...)
	for _, r := range t.rows {
		out = append(out, r...)
	}
	return out
}

// Row is one data row addressed by column name.
type Row struct {
	table *Table
	cells []string
}

// Get returns the trimmed cell under column. ok is false when the column is absent
// from the header; a short row yields an empty value.
func (r Row) Get(column string) (value string, ok bool) {
	idx, ok := r.table.index[column]
	if !ok {
		return "", false
	}
	return r.At(idx), true
}

// At returns the trimmed cell at position i, or "" when the row is shorter.
func (r Row) At(i int) string {
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}
