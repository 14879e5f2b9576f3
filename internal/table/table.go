// Package table provides an immutable columnar table with helpers for the
// CSV reports hledger produces. Every operation returns a new Table and
// leaves its receiver untouched, so a Table may be shared between goroutines.
package table

import (
	"fmt"
	"slices"
)

// Table is an ordered set of uniquely named columns of equal length.
// The zero value is an empty table.
type Table struct {
	cols  []Column
	index map[string]int
	nrows int
}

// New builds a Table from columns.
func New(cols ...Column) (Table, error) {
	index := make(map[string]int, len(cols))
	nrows := 0
	for i, c := range cols {
		if _, dup := index[c.name]; dup {
			return Table{}, fmt.Errorf("%w: %q", ErrDuplicateColumn, c.name)
		}
		if i == 0 {
			nrows = c.Len()
		} else if c.Len() != nrows {
			return Table{}, fmt.Errorf("%w: %q has %d rows, want %d", ErrLengthMismatch, c.name, c.Len(), nrows)
		}
		index[c.name] = i
	}
	return Table{cols: slices.Clone(cols), index: index, nrows: nrows}, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(cols ...Column) Table {
	t, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return t
}

// Names returns the column names in order.
func (t Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.name
	}
	return names
}

// Nrows returns the number of rows.
func (t Table) Nrows() int { return t.nrows }

// Ncols returns the number of columns.
func (t Table) Ncols() int { return len(t.cols) }

// Columns returns the columns in order.
func (t Table) Columns() []Column { return slices.Clone(t.cols) }

// HasColumn reports whether a column called name exists.
func (t Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column.
func (t Table) Column(name string) (Column, error) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, t.notFound(name)
	}
	return t.cols[i], nil
}

// Records returns the header followed by every row with cells formatted as text.
func (t Table) Records() [][]string {
	out := make([][]string, 0, t.nrows+1)
	out = append(out, t.Names())
	for r := 0; r < t.nrows; r++ {
		row := make([]string, len(t.cols))
		for i, c := range t.cols {
			row[i] = formatCell(c.values[r])
		}
		out = append(out, row)
	}
	return out
}

// Row gives read access to one row during Filter.
type Row struct {
	t *Table
	i int
}

// Index returns the row position in the source table.
func (r Row) Index() int { return r.i }

// Get returns the cell in column name, or nil if the column is absent or null.
func (r Row) Get(name string) any {
	ci, ok := r.t.index[name]
	if !ok {
		return nil
	}
	return r.t.cols[ci].values[r.i]
}

// String returns the cell in column name formatted as text.
func (r Row) String(name string) string {
	return formatCell(r.Get(name))
}

// Filter keeps the rows for which keep returns true, preserving order.
func (t Table) Filter(keep func(Row) bool) Table {
	rows := make([]int, 0, t.nrows)
	for i := 0; i < t.nrows; i++ {
		if keep(Row{t: &t, i: i}) {
			rows = append(rows, i)
		}
	}
	return t.take(rows)
}

// Select returns only the named columns, in the given order.
func (t Table) Select(names ...string) (Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return Table{}, err
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return Table{}, nil
	}
	return New(cols...)
}

// Drop returns the table without the named columns.
func (t Table) Drop(names ...string) (Table, error) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		if !t.HasColumn(n) {
			return Table{}, t.notFound(n)
		}
		drop[n] = true
	}
	cols := make([]Column, 0, len(t.cols))
	for _, c := range t.cols {
		if !drop[c.name] {
			cols = append(cols, c)
		}
	}
	return t.withCols(cols, t.nrows)
}

// Rename returns the table with columns renamed according to mapping
// (old name to new name).
func (t Table) Rename(mapping map[string]string) (Table, error) {
	for old := range mapping {
		if !t.HasColumn(old) {
			return Table{}, t.notFound(old)
		}
	}
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		if n, ok := mapping[c.name]; ok {
			c = c.Rename(n)
		}
		cols[i] = c
	}
	return t.withCols(cols, t.nrows)
}

// SetNames replaces every column name at once.
func (t Table) SetNames(names ...string) (Table, error) {
	if len(names) != len(t.cols) {
		return Table{}, fmt.Errorf("setting names: got %d names for %d columns", len(names), len(t.cols))
	}
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.Rename(names[i])
	}
	return t.withCols(cols, t.nrows)
}

// WithColumns replaces same-named columns in place and appends the rest.
func (t Table) WithColumns(cols ...Column) (Table, error) {
	out := slices.Clone(t.cols)
	for _, c := range cols {
		if i, ok := t.index[c.name]; ok {
			out[i] = c
			continue
		}
		out = append(out, c)
	}
	return New(out...)
}

func (t Table) withCols(cols []Column, nrows int) (Table, error) {
	if len(cols) == 0 {
		return Table{nrows: nrows}, nil
	}
	return New(cols...)
}

func (t Table) take(rows []int) Table {
	cols := make([]Column, len(t.cols))
	for i, c := range t.cols {
		cols[i] = c.take(rows)
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return Table{cols: cols, index: index, nrows: len(rows)}
}

func (t Table) notFound(name string) error {
	return &ColumnNotFoundError{Column: name, Available: t.Names()}
}
