package table

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultAccountColumn is the column hledger uses for account names.
const DefaultAccountColumn = "account"

type filterConfig struct {
	column  string
	exclude bool
}

// FilterOption configures FilterAccounts.
type FilterOption func(*filterConfig)

// AccountColumn sets the column matched against the patterns.
func AccountColumn(name string) FilterOption {
	return func(c *filterConfig) { c.column = name }
}

// Exclude keeps the rows that do not match instead of those that do.
func Exclude() FilterOption {
	return func(c *filterConfig) { c.exclude = true }
}

// FilterAccounts keeps rows whose account cell contains a match for any of
// patterns. Patterns are regular expressions joined into one alternation and
// are not anchored. Null cells never match.
func (t Table) FilterAccounts(patterns []string, opts ...FilterOption) (Table, error) {
	cfg := filterConfig{column: DefaultAccountColumn}
	for _, o := range opts {
		o(&cfg)
	}

	col, err := t.Column(cfg.column)
	if err != nil {
		return Table{}, err
	}
	re, err := regexp.Compile(strings.Join(patterns, "|"))
	if err != nil {
		return Table{}, fmt.Errorf("compiling account pattern: %w", err)
	}

	return t.Filter(func(r Row) bool {
		v := col.values[r.Index()]
		matched := v != nil && re.MatchString(formatCell(v))
		return matched != cfg.exclude
	}), nil
}
