package table

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrColumnNotFound matches any *ColumnNotFoundError.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when two columns would share a name.
	ErrDuplicateColumn = errors.New("duplicate column name")
	// ErrLengthMismatch is returned when columns differ in length.
	ErrLengthMismatch = errors.New("column length mismatch")
	// ErrNotTemporal is returned when a date operation targets a non-time column.
	ErrNotTemporal = errors.New("column is not temporal")
)

// ColumnNotFoundError reports a reference to a column the table lacks.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (columns: %s)", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// ParseError reports a cell that does not match the requested date format.
type ParseError struct {
	Column string
	Row    int
	Value  string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %q row %d: parsing %q with format %q: %v", e.Column, e.Row, e.Value, e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NumericParseError reports a cell that is not a valid number.
type NumericParseError struct {
	Column string
	Row    int
	Value  string
	Err    error
}

func (e *NumericParseError) Error() string {
	return fmt.Sprintf("column %q row %d: %q is not a number: %v", e.Column, e.Row, e.Value, e.Err)
}

func (e *NumericParseError) Unwrap() error { return e.Err }
