package table

import (
	"fmt"
	"strconv"
)

const (
	headerColumn  = "column"
	legacyAccount = "Account"
)

type transposeConfig struct {
	idColumn      string
	includeHeader bool
	autoName      bool
}

// TransposeOption configures Transpose.
type TransposeOption func(*transposeConfig)

// IDColumn names the column whose values become the new headers.
func IDColumn(name string) TransposeOption {
	return func(c *transposeConfig) { c.idColumn = name }
}

// IncludeHeader controls whether the old column names are kept as the first
// column of the result.
func IncludeHeader(include bool) TransposeOption {
	return func(c *transposeConfig) { c.includeHeader = include }
}

// AutoName toggles hledger-aware naming. When off, Transpose is a plain
// matrix transpose.
func AutoName(auto bool) TransposeOption {
	return func(c *transposeConfig) { c.autoName = auto }
}

// Transpose swaps rows and columns.
//
// With AutoName (the default) an identifier column is chosen: IDColumn if
// given, else "account" (or "Account"), else "date". Its values become the
// new column headers and the old headers move into a first column named
// "date" when the identifier was "account" and "account" otherwise, so
//
//	account,2024-01,2024-02
//	expenses:food,£100,£150
//
// becomes
//
//	date,expenses:food
//	2024-01,£100
//	2024-02,£150
//
// Identifier values must be unique; duplicates fail with ErrDuplicateColumn.
// Without an identifier, or with AutoName(false), the result is a plain
// transpose whose columns are named "column" (old headers, when included)
// and "column_0" .. "column_n".
func (t Table) Transpose(opts ...TransposeOption) (Table, error) {
	cfg := transposeConfig{includeHeader: true, autoName: true}
	for _, o := range opts {
		o(&cfg)
	}

	if !cfg.autoName {
		return t.transpose(cfg.includeHeader)
	}

	id := cfg.idColumn
	if id == "" {
		switch {
		case t.HasColumn(DefaultAccountColumn), t.HasColumn(legacyAccount):
			id = DefaultAccountColumn
		case t.HasColumn(DefaultDateColumn):
			id = DefaultDateColumn
		default:
			return t.transpose(cfg.includeHeader)
		}
	}

	src := t
	if t.HasColumn(legacyAccount) {
		var err error
		src, err = t.Rename(map[string]string{legacyAccount: DefaultAccountColumn})
		if err != nil {
			return Table{}, fmt.Errorf("normalising account column: %w", err)
		}
		if id == legacyAccount {
			id = DefaultAccountColumn
		}
	}

	idCol, err := src.Column(id)
	if err != nil {
		return Table{}, err
	}
	headers := idCol.Strings()

	rest, err := src.Drop(id)
	if err != nil {
		return Table{}, err
	}
	flipped, err := rest.transpose(cfg.includeHeader)
	if err != nil {
		return Table{}, err
	}

	names := headers
	if cfg.includeHeader {
		axis := DefaultAccountColumn
		if id == DefaultAccountColumn {
			axis = DefaultDateColumn
		}
		names = append([]string{axis}, headers...)
	}
	return flipped.SetNames(names...)
}

// transpose is the plain structural pivot. Data columns keep the source type
// when every source column shares it and fall back to String otherwise.
func (t Table) transpose(includeHeader bool) (Table, error) {
	typ := String
	for i, c := range t.cols {
		if i == 0 {
			typ = c.typ
		} else if c.typ != typ {
			typ = String
			break
		}
	}

	cols := make([]Column, 0, t.nrows+1)
	if includeHeader {
		cols = append(cols, NewStringColumn(headerColumn, t.Names()))
	}
	for r := 0; r < t.nrows; r++ {
		values := make([]any, len(t.cols))
		for i, c := range t.cols {
			v := c.values[r]
			if typ == String && v != nil {
				v = formatCell(v)
			}
			values[i] = v
		}
		cols = append(cols, Column{name: "column_" + strconv.Itoa(r), typ: typ, values: values})
	}

	if len(cols) == 0 {
		return Table{}, nil
	}
	return New(cols...)
}
