package table

import (
	"fmt"
	"strconv"
	"time"
)

// Type is the semantic type shared by every cell of a column.
type Type int

const (
	String Type = iota
	Float
	Int
	Bool
	Time
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Float:
		return "float"
	case Int:
		return "int"
	case Bool:
		return "bool"
	case Time:
		return "time"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// Numeric reports whether t holds numbers.
func (t Type) Numeric() bool {
	return t == Float || t == Int
}

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

// Column is a named, typed sequence of cells. A nil cell is null; any other
// cell holds the Go type matching the column Type (string, float64, int64,
// bool or time.Time). Columns are never modified after construction.
type Column struct {
	name   string
	typ    Type
	values []any
}

// NewStringColumn returns a String column holding a copy of values.
func NewStringColumn(name string, values []string) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{name: name, typ: String, values: cells}
}

// NewFloatColumn returns a Float column holding a copy of values.
func NewFloatColumn(name string, values []float64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{name: name, typ: Float, values: cells}
}

// NewIntColumn returns an Int column holding a copy of values.
func NewIntColumn(name string, values []int64) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{name: name, typ: Int, values: cells}
}

// NewBoolColumn returns a Bool column holding a copy of values.
func NewBoolColumn(name string, values []bool) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{name: name, typ: Bool, values: cells}
}

// NewTimeColumn returns a Time column holding a copy of values.
func NewTimeColumn(name string, values []time.Time) Column {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return Column{name: name, typ: Time, values: cells}
}

// NewColumn builds a column from loosely typed cells. Each cell must be nil or
// match typ; int and float32 are widened.
func NewColumn(name string, typ Type, values []any) (Column, error) {
	cells := make([]any, len(values))
	for i, v := range values {
		cell, err := coerce(typ, v)
		if err != nil {
			return Column{}, fmt.Errorf("column %q row %d: %w", name, i, err)
		}
		cells[i] = cell
	}
	return Column{name: name, typ: typ, values: cells}, nil
}

func coerce(typ Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		}
	case Int:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case Time:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("value %v (%T) is not a %s", v, v, typ)
}

// Name returns the column name.
func (c Column) Name() string { return c.name }

// Type returns the column type.
func (c Column) Type() Type { return c.typ }

// Len returns the number of cells.
func (c Column) Len() int { return len(c.values) }

// Value returns cell i, nil when null.
func (c Column) Value(i int) any { return c.values[i] }

// IsNull reports whether cell i is null.
func (c Column) IsNull(i int) bool { return c.values[i] == nil }

// Values returns a copy of the cells.
func (c Column) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// Strings returns every cell formatted as text; nulls become "".
func (c Column) Strings() []string {
	out := make([]string, len(c.values))
	for i, v := range c.values {
		out[i] = formatCell(v)
	}
	return out
}

// Float returns cell i as a float64 for numeric columns.
func (c Column) Float(i int) (float64, bool) {
	switch v := c.values[i].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Rename returns the same cells under a new name.
func (c Column) Rename(name string) Column {
	return Column{name: name, typ: c.typ, values: c.values}
}

func (c Column) take(rows []int) Column {
	cells := make([]any, len(rows))
	for i, r := range rows {
		cells[i] = c.values[r]
	}
	return Column{name: c.name, typ: c.typ, values: cells}
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(dateLayout)
		}
		return x.Format(dateTimeLayout)
	default:
		return fmt.Sprint(x)
	}
}
