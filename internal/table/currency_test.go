package table

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyToNumberPreserve(t *testing.T) {
	tbl := MustNew(
		NewStringColumn("date", []string{"2024-01"}),
		NewStringColumn("amount", []string{"£100.50"}),
	)

	out, err := tbl.CurrencyToNumber(Symbol("£"), Preserve("date"))
	require.NoError(t, err)

	date, err := out.Column("date")
	require.NoError(t, err)
	assert.Equal(t, String, date.Type())
	assert.Equal(t, []any{"2024-01"}, date.Values())

	amount, err := out.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, Float, amount.Type())
	v, ok := amount.Float(0)
	require.True(t, ok)
	assert.InDelta(t, 100.50, v, 1e-9)

	// Receiver untouched.
	orig, err := tbl.Column("amount")
	require.NoError(t, err)
	assert.Equal(t, String, orig.Type())
}

func TestCurrencyToNumberValues(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		in     string
		want   any
	}{
		{"plain", "£", "£12", 12.0},
		{"negative after symbol", "£", "£-40.25", -40.25},
		{"negative before symbol", "£", "-£40.25", -40.25},
		{"every occurrence", "£", "££5", 5.0},
		{"spaces", "£", " £ 7.5 ", 7.5},
		{"dollar symbol", "$", "$3.10", 3.1},
		{"multi-rune symbol", "EUR", "EUR 9", 9.0},
		{"no symbol present", "£", "42", 42.0},
		{"empty", "£", "", nil},
		{"blank", "£", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := MustNew(NewStringColumn("amount", []string{tt.in}))
			out, err := tbl.CurrencyToNumber(Symbol(tt.symbol))
			require.NoError(t, err)

			col, err := out.Column("amount")
			require.NoError(t, err)
			if tt.want == nil {
				assert.True(t, col.IsNull(0))
				return
			}
			v, ok := col.Float(0)
			require.True(t, ok)
			assert.InDelta(t, tt.want.(float64), v, 1e-9)
		})
	}
}

func TestCurrencyToNumberChange(t *testing.T) {
	tbl := MustNew(
		NewStringColumn("account", []string{"assets:bank"}),
		NewStringColumn("jan", []string{"£1"}),
		NewStringColumn("feb", []string{"£2"}),
	)

	out, err := tbl.CurrencyToNumber(Change("jan"))
	require.NoError(t, err)
	types := []Type{}
	for _, c := range out.Columns() {
		types = append(types, c.Type())
	}
	assert.Equal(t, []Type{String, Float, String}, types)

	// Preserve wins over Change.
	out, err = tbl.CurrencyToNumber(Change("jan", "feb"), Preserve("feb"))
	require.NoError(t, err)
	feb, err := out.Column("feb")
	require.NoError(t, err)
	assert.Equal(t, String, feb.Type())

	_, err = tbl.CurrencyToNumber(Change("mar"))
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestCurrencyToNumberEmptyChange(t *testing.T) {
	tbl, err := FromCSV("account,v\n£,x\n")
	require.NoError(t, err)

	out, err := tbl.CurrencyToNumber(Change())
	require.NoError(t, err)
	assert.Equal(t, tbl.Records(), out.Records())
	for _, c := range out.Columns() {
		assert.Equal(t, String, c.Type(), c.Name())
	}

	var none []string
	_, err = tbl.CurrencyToNumber(Change(none...))
	require.NoError(t, err)
}

func TestCurrencyToNumberBareSymbol(t *testing.T) {
	tbl := MustNew(NewStringColumn("amount", []string{"£5", "£"}))

	_, err := tbl.CurrencyToNumber()
	var npe *NumericParseError
	require.ErrorAs(t, err, &npe)
	assert.Equal(t, "amount", npe.Column)
	assert.Equal(t, 1, npe.Row)
	assert.Equal(t, "£", npe.Value)
}

func TestCurrencyToNumberRejectsText(t *testing.T) {
	tbl := MustNew(
		NewStringColumn("account", []string{"assets:bank"}),
		NewStringColumn("amount", []string{"£1"}),
	)

	_, err := tbl.CurrencyToNumber()
	var npe *NumericParseError
	require.True(t, errors.As(err, &npe))
	assert.Equal(t, "account", npe.Column)
	assert.Equal(t, 0, npe.Row)
	assert.Equal(t, "assets:bank", npe.Value)

	_, err = MustNew(NewStringColumn("amount", []string{"£1,000"})).CurrencyToNumber()
	assert.True(t, errors.As(err, &npe), "thousands separators are not supported")
}

func TestCurrencyToNumberNumericColumns(t *testing.T) {
	tbl := MustNew(
		NewIntColumn("n", []int64{3}),
		NewFloatColumn("f", []float64{1.5}),
	)
	out, err := tbl.CurrencyToNumber()
	require.NoError(t, err)

	n, err := out.Column("n")
	require.NoError(t, err)
	assert.Equal(t, []any{3.0}, n.Values())
}
