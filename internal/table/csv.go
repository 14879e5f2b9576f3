package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type csvConfig struct {
	inferSchema bool
	hasHeader   bool
	delimiter   rune
	comment     rune
	lazyQuotes  bool
	types       map[string]Type
	timeFormat  string
}

// CSVOption configures ReadCSV.
type CSVOption func(*csvConfig)

// InferSchema enables per-column type detection. By default every column is
// read as String because hledger amounts carry currency symbols.
func InferSchema(infer bool) CSVOption {
	return func(c *csvConfig) { c.inferSchema = infer }
}

// HasHeader controls whether the first record names the columns. Without a
// header columns are named column_0, column_1, ...
func HasHeader(has bool) CSVOption {
	return func(c *csvConfig) { c.hasHeader = has }
}

// Delimiter sets the field separator.
func Delimiter(r rune) CSVOption {
	return func(c *csvConfig) { c.delimiter = r }
}

// Comment sets the comment character; lines starting with it are skipped.
func Comment(r rune) CSVOption {
	return func(c *csvConfig) { c.comment = r }
}

// LazyQuotes allows quotes to appear in unquoted fields.
func LazyQuotes(lazy bool) CSVOption {
	return func(c *csvConfig) { c.lazyQuotes = lazy }
}

// ColumnTypes forces the type of named columns, overriding inference.
// Time columns are parsed with TimeFormat.
func ColumnTypes(types map[string]Type) CSVOption {
	return func(c *csvConfig) {
		for k, v := range types {
			c.types[k] = v
		}
	}
}

// TimeFormat sets the strftime pattern used for Time columns in ColumnTypes.
func TimeFormat(format string) CSVOption {
	return func(c *csvConfig) { c.timeFormat = format }
}

// FromCSV parses CSV text into a Table.
func FromCSV(text string, opts ...CSVOption) (Table, error) {
	return ReadCSV(strings.NewReader(text), opts...)
}

// ReadCSV parses CSV from r into a Table.
func ReadCSV(r io.Reader, opts ...CSVOption) (Table, error) {
	cfg := csvConfig{
		hasHeader:  true,
		delimiter:  ',',
		types:      make(map[string]Type),
		timeFormat: DefaultDateFormat,
	}
	for _, o := range opts {
		o(&cfg)
	}

	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter
	cr.Comment = cfg.comment
	cr.LazyQuotes = cfg.lazyQuotes

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	var names []string
	rows := records
	if cfg.hasHeader {
		names = records[0]
		rows = records[1:]
	} else {
		names = make([]string, len(records[0]))
		for i := range names {
			names[i] = "column_" + strconv.Itoa(i)
		}
	}

	cols := make([]Column, len(names))
	for ci, name := range names {
		cells := make([]string, len(rows))
		for ri, rec := range rows {
			cells[ri] = rec[ci]
		}

		typ, forced := cfg.types[name]
		switch {
		case forced:
			cols[ci], err = parseColumn(name, typ, cells, cfg.timeFormat)
		case cfg.inferSchema:
			cols[ci], err = parseColumn(name, inferType(cells), cells, cfg.timeFormat)
		default:
			cols[ci] = NewStringColumn(name, cells)
		}
		if err != nil {
			return Table{}, err
		}
	}

	if len(cols) == 0 {
		return Table{nrows: len(rows)}, nil
	}
	return New(cols...)
}

// WriteCSV writes the header and every row to w.
func (t Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for i, rec := range t.Records() {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// String renders the table as CSV.
func (t Table) String() string {
	var sb strings.Builder
	if err := t.WriteCSV(&sb); err != nil {
		return fmt.Sprintf("table: %v", err)
	}
	return sb.String()
}

func inferType(cells []string) Type {
	isInt, isFloat, isBool := true, true, true
	seen := false
	for _, s := range cells {
		if s == "" {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			l := strings.ToLower(s)
			if l != "true" && l != "false" {
				isBool = false
			}
		}
	}
	switch {
	case !seen:
		return String
	case isInt:
		return Int
	case isFloat:
		return Float
	case isBool:
		return Bool
	default:
		return String
	}
}

// parseColumn converts raw cells to typ. Empty cells become null except in
// String columns, which keep them verbatim.
func parseColumn(name string, typ Type, cells []string, timeFormat string) (Column, error) {
	values := make([]any, len(cells))
	for i, s := range cells {
		if s == "" && typ != String {
			continue
		}
		switch typ {
		case String:
			values[i] = s
		case Int:
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Column{}, &NumericParseError{Column: name, Row: i, Value: s, Err: err}
			}
			values[i] = n
		case Float:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Column{}, &NumericParseError{Column: name, Row: i, Value: s, Err: err}
			}
			values[i] = f
		case Bool:
			b, err := strconv.ParseBool(strings.ToLower(s))
			if err != nil {
				return Column{}, &ParseError{Column: name, Row: i, Value: s, Format: "bool", Err: err}
			}
			values[i] = b
		case Time:
			ts, err := parseTime(s, timeFormat)
			if err != nil {
				return Column{}, &ParseError{Column: name, Row: i, Value: s, Format: timeFormat, Err: err}
			}
			values[i] = ts
		default:
			return Column{}, errors.New("unknown column type " + typ.String())
		}
	}
	return Column{name: name, typ: typ, values: values}, nil
}
