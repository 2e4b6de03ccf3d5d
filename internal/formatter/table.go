// Package formatter renders command output as an aligned table, JSON or YAML.
package formatter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table buffers rows and writes them as aligned columns on Render.
type Table struct {
	w        io.Writer
	headers  []string
	rows     [][]string
	maxWidth map[int]int // column index -> max width (0 = unlimited)
}

// NewTable creates a table that writes to w with the given column headers.
func NewTable(w io.Writer, headers ...string) *Table {
	return &Table{w: w, headers: headers, maxWidth: make(map[int]int)}
}

// SetMaxWidth sets the maximum display width for a column (0-indexed).
// Longer values are cut and end in "...".
func (t *Table) SetMaxWidth(col, width int) *Table {
	t.maxWidth[col] = width
	return t
}

// AddRow appends a row; missing cells are blank and extra ones dropped.
func (t *Table) AddRow(values ...string) {
	cells := make([]string, len(t.headers))
	for i := range cells {
		if i < len(values) {
			cells[i] = t.truncate(i, values[i])
		}
	}
	t.rows = append(t.rows, cells)
}

// Render writes the header, a dashed separator and every row.
// A table without rows writes nothing.
func (t *Table) Render() error {
	if len(t.rows) == 0 {
		return nil
	}
	tw := tabwriter.NewWriter(t.w, 0, 0, 2, ' ', 0)

	separator := make([]string, len(t.headers))
	for i, h := range t.headers {
		separator[i] = strings.Repeat("-", len(h))
	}

	lines := append([][]string{t.headers, separator}, t.rows...)
	for _, cells := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func (t *Table) truncate(col int, s string) string {
	limit, ok := t.maxWidth[col]
	if !ok || limit <= 0 || len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}
