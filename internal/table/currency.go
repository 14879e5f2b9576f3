package table

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol is stripped by CurrencyToNumber unless overridden.
const DefaultCurrencySymbol = "£"

var errNotAmount = errors.New("not an amount")

type currencyConfig struct {
	symbol   string
	preserve map[string]bool
	change   []string
	changed  bool
}

// CurrencyOption configures CurrencyToNumber.
type CurrencyOption func(*currencyConfig)

// Symbol sets the currency symbol to strip.
func Symbol(s string) CurrencyOption {
	return func(c *currencyConfig) { c.symbol = s }
}

// Preserve leaves the named columns untouched. It wins over Change.
func Preserve(names ...string) CurrencyOption {
	return func(c *currencyConfig) {
		for _, n := range names {
			c.preserve[n] = true
		}
	}
}

// Change restricts conversion to the named columns. Without it every column
// is converted; with an empty list none is.
func Change(names ...string) CurrencyOption {
	return func(c *currencyConfig) {
		c.changed = true
		c.change = append(c.change, names...)
	}
}

// CurrencyToNumber converts amount columns such as "£1250.50" to Float.
// Every occurrence of the symbol is removed and the remainder parsed as a
// decimal number. Blank cells become null but a bare symbol is an error.
// Numeric columns are widened to Float as they are.
func (t Table) CurrencyToNumber(opts ...CurrencyOption) (Table, error) {
	cfg := currencyConfig{symbol: DefaultCurrencySymbol, preserve: make(map[string]bool)}
	for _, o := range opts {
		o(&cfg)
	}

	targets := cfg.change
	if !cfg.changed {
		targets = t.Names()
	}

	converted := make([]Column, 0, len(targets))
	for _, name := range targets {
		if cfg.preserve[name] {
			continue
		}
		col, err := t.Column(name)
		if err != nil {
			return Table{}, err
		}
		out, err := currencyColumn(col, cfg.symbol)
		if err != nil {
			return Table{}, err
		}
		converted = append(converted, out)
	}
	return t.WithColumns(converted...)
}

func currencyColumn(col Column, symbol string) (Column, error) {
	values := make([]any, col.Len())
	for i, v := range col.values {
		switch x := v.(type) {
		case nil:
		case float64:
			values[i] = x
		case int64:
			values[i] = float64(x)
		case string:
			f, ok, err := parseAmount(x, symbol)
			if err != nil {
				return Column{}, &NumericParseError{Column: col.name, Row: i, Value: x, Err: err}
			}
			if ok {
				values[i] = f
			}
		default:
			s := formatCell(v)
			return Column{}, &NumericParseError{Column: col.name, Row: i, Value: s, Err: errNotAmount}
		}
	}
	return Column{name: col.name, typ: Float, values: values}, nil
}

// parseAmount reports ok=false for blank cells.
func parseAmount(s, symbol string) (float64, bool, error) {
	if strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	if symbol != "" {
		s = strings.ReplaceAll(s, symbol, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, errNotAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false, err
	}
	return d.InexactFloat64(), true, nil
}
