package table

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/itchyny/timefmt-go"
)

const (
	// DefaultDateColumn is the column hledger uses for period labels.
	DefaultDateColumn = "date"
	// DefaultDateFormat matches hledger's monthly period labels ("2024-01").
	DefaultDateFormat = "%Y-%m"
)

func parseTime(s, format string) (time.Time, error) {
	return timefmt.Parse(s, format)
}

// ToDatetime parses a text column into a Time column using a strftime
// pattern. Empty column and format arguments select "date" and "%Y-%m".
// Every non-null cell must match the pattern.
func (t Table) ToDatetime(column, format string) (Table, error) {
	if column == "" {
		column = DefaultDateColumn
	}
	if format == "" {
		format = DefaultDateFormat
	}

	col, err := t.Column(column)
	if err != nil {
		return Table{}, err
	}
	if col.typ == Time {
		return t, nil
	}

	values := make([]any, col.Len())
	for i, v := range col.values {
		if v == nil {
			continue
		}
		s := formatCell(v)
		ts, err := parseTime(s, format)
		if err != nil {
			return Table{}, &ParseError{Column: column, Row: i, Value: s, Format: format, Err: err}
		}
		values[i] = ts
	}
	return t.WithColumns(Column{name: column, typ: Time, values: values})
}

var stepPattern = regexp.MustCompile(`^(\d+)(d|w|mo|q|y)$`)

// Step is a calendar interval such as one month.
type Step struct {
	Years, Months, Days int
}

// ParseStep parses intervals like "1d", "2w", "1mo", "1q" or "1y".
func ParseStep(s string) (Step, error) {
	m := stepPattern.FindStringSubmatch(s)
	if m == nil {
		return Step{}, fmt.Errorf("invalid step %q: want <n>d, <n>w, <n>mo, <n>q or <n>y", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return Step{}, fmt.Errorf("invalid step %q: count must be positive", s)
	}
	switch m[2] {
	case "d":
		return Step{Days: n}, nil
	case "w":
		return Step{Days: 7 * n}, nil
	case "mo":
		return Step{Months: n}, nil
	case "q":
		return Step{Months: 3 * n}, nil
	default:
		return Step{Years: n}, nil
	}
}

func (s Step) next(t time.Time) time.Time {
	return t.AddDate(s.Years, s.Months, s.Days)
}

// FillMissingDates inserts a row for every step between the earliest and
// latest date that has no row yet. Numeric columns of inserted rows, and any
// null numeric cells, are set to zero; other columns stay null. The result is
// ordered by date and rows sharing a date keep their relative order.
func (t Table) FillMissingDates(column, step string) (Table, error) {
	if column == "" {
		column = DefaultDateColumn
	}
	st, err := ParseStep(step)
	if err != nil {
		return Table{}, err
	}
	col, err := t.Column(column)
	if err != nil {
		return Table{}, err
	}
	if col.typ != Time {
		return Table{}, fmt.Errorf("%w: %q is %s", ErrNotTemporal, column, col.typ)
	}

	present := make(map[int64]bool)
	var first, last time.Time
	for _, v := range col.values {
		if v == nil {
			continue
		}
		ts := v.(time.Time)
		if len(present) == 0 || ts.Before(first) {
			first = ts
		}
		if len(present) == 0 || ts.After(last) {
			last = ts
		}
		present[ts.UnixNano()] = true
	}
	if len(present) == 0 {
		return t, nil
	}

	var missing []time.Time
	for d := first; !d.After(last); d = st.next(d) {
		if !present[d.UnixNano()] {
			missing = append(missing, d)
		}
	}

	// Source rows first, then synthetic rows; -1-k marks missing[k].
	order := make([]int, 0, t.nrows+len(missing))
	for i := 0; i < t.nrows; i++ {
		order = append(order, i)
	}
	for k := range missing {
		order = append(order, -1-k)
	}
	dateOf := func(r int) (time.Time, bool) {
		if r < 0 {
			return missing[-1-r], true
		}
		v := col.values[r]
		if v == nil {
			return time.Time{}, false
		}
		return v.(time.Time), true
	}
	slices.SortStableFunc(order, func(a, b int) int {
		da, oka := dateOf(a)
		db, okb := dateOf(b)
		switch {
		case !oka && !okb:
			return 0
		case !oka:
			return 1
		case !okb:
			return -1
		}
		return da.Compare(db)
	})

	cols := make([]Column, len(t.cols))
	for ci, c := range t.cols {
		values := make([]any, len(order))
		for i, r := range order {
			switch {
			case c.name == column:
				if d, ok := dateOf(r); ok {
					values[i] = d
				}
				continue
			case r >= 0:
				values[i] = c.values[r]
			}
			if values[i] == nil {
				switch c.typ {
				case Float:
					values[i] = float64(0)
				case Int:
					values[i] = int64(0)
				}
			}
		}
		cols[ci] = Column{name: c.name, typ: c.typ, values: values}
	}
	return New(cols...)
}
