package table

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const balanceCSV = `"account","balance"
"assets:bank","£1,000.00"
"expenses:food","£25.50"
"total",""
`

func TestFromCSVKeepsRawStrings(t *testing.T) {
	tbl, err := FromCSV(balanceCSV)
	require.NoError(t, err)
	require.Equal(t, []string{"account", "balance"}, tbl.Names())

	records := [][]string{
		{"assets:bank", "£1,000.00"},
		{"expenses:food", "£25.50"},
		{"total", ""},
	}
	for ci, name := range tbl.Names() {
		col, err := tbl.Column(name)
		require.NoError(t, err)
		assert.Equal(t, String, col.Type())
		for ri := range records {
			assert.Equal(t, records[ri][ci], col.Value(ri), "cell %d,%s", ri, name)
		}
	}
}

func TestFromCSVInferSchema(t *testing.T) {
	text := "name,count,ratio,flag,empty\nx,1,0.5,true,\ny,2,1,FALSE,\nz,,2.25,false,\n"
	tbl, err := FromCSV(text, InferSchema(true))
	require.NoError(t, err)

	types := map[string]Type{}
	for _, c := range tbl.Columns() {
		types[c.Name()] = c.Type()
	}
	assert.Equal(t, map[string]Type{
		"name":  String,
		"count": Int,
		"ratio": Float,
		"flag":  Bool,
		"empty": String,
	}, types)

	count, err := tbl.Column("count")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), nil}, count.Values())

	flag, err := tbl.Column("flag")
	require.NoError(t, err)
	assert.Equal(t, []any{true, false, false}, flag.Values())
}

func TestFromCSVColumnTypes(t *testing.T) {
	text := "date,amount\n2024-01,3\n2024-02,4.5\n"
	tbl, err := FromCSV(text, ColumnTypes(map[string]Type{"date": Time, "amount": Float}))
	require.NoError(t, err)

	date, err := tbl.Column("date")
	require.NoError(t, err)
	assert.Equal(t, Time, date.Type())
	assert.Equal(t, []string{"2024-01-01", "2024-02-01"}, date.Strings())

	_, err = FromCSV("amount\nabc\n", ColumnTypes(map[string]Type{"amount": Float}))
	var npe *NumericParseError
	require.True(t, errors.As(err, &npe))
	assert.Equal(t, "abc", npe.Value)
}

func TestFromCSVOptions(t *testing.T) {
	text := "# exported\na;b\n1;2\n"
	tbl, err := FromCSV(text, Delimiter(';'), Comment('#'))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Names())

	tbl, err = FromCSV("1,2\n3,4\n", HasHeader(false))
	require.NoError(t, err)
	assert.Equal(t, []string{"column_0", "column_1"}, tbl.Names())
	assert.Equal(t, 2, tbl.Nrows())

	// Generic transpose numbers its columns from the same base.
	tr, err := tbl.Transpose(AutoName(false), IncludeHeader(false))
	require.NoError(t, err)
	assert.Equal(t, tbl.Names(), tr.Names())
}

func TestFromCSVEmptyAndHeaderOnly(t *testing.T) {
	tbl, err := FromCSV("")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Ncols())

	tbl, err = FromCSV("account,balance\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "balance"}, tbl.Names())
	assert.Equal(t, 0, tbl.Nrows())
}

func TestFromCSVErrors(t *testing.T) {
	_, err := FromCSV("a,b\n1\n")
	assert.Error(t, err, "ragged rows")

	_, err = FromCSV("a,a\n1,2\n")
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl, err := FromCSV(balanceCSV)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))

	again, err := ReadCSV(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, tbl.Records(), again.Records())
	assert.Equal(t, buf.String(), tbl.String())
}
