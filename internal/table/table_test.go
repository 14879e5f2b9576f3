package table

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) Table {
	t.Helper()
	tbl, err := New(
		NewStringColumn("account", []string{"assets:bank", "expenses:food", "income:salary"}),
		NewStringColumn("balance", []string{"£100", "£25.50", "£-2000"}),
	)
	require.NoError(t, err)
	return tbl
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(NewStringColumn("a", nil), NewStringColumn("a", nil))
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestNewRejectsLengthMismatch(t *testing.T) {
	_, err := New(NewStringColumn("a", []string{"1"}), NewStringColumn("b", []string{"1", "2"}))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestNewColumnTypes(t *testing.T) {
	col, err := NewColumn("n", Float, []any{1.5, float32(2), nil})
	require.NoError(t, err)
	assert.Equal(t, []any{1.5, float64(2), nil}, col.Values())

	col, err = NewColumn("i", Int, []any{1, int64(2)})
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, col.Values())

	_, err = NewColumn("n", Float, []any{"1.5"})
	assert.Error(t, err)
}

func TestAccessors(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, []string{"account", "balance"}, tbl.Names())
	assert.Equal(t, 3, tbl.Nrows())
	assert.Equal(t, 2, tbl.Ncols())
	assert.True(t, tbl.HasColumn("balance"))
	assert.False(t, tbl.HasColumn("date"))

	col, err := tbl.Column("account")
	require.NoError(t, err)
	assert.Equal(t, String, col.Type())
	assert.Equal(t, "expenses:food", col.Value(1))

	_, err = tbl.Column("missing")
	var nf *ColumnNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Column)
	assert.Equal(t, []string{"account", "balance"}, nf.Available)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestRecordsFormatsCells(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tbl := MustNew(
		NewTimeColumn("date", []time.Time{day}),
		NewFloatColumn("amount", []float64{12.5}),
		NewIntColumn("count", []int64{3}),
		NewBoolColumn("ok", []bool{true}),
	)
	assert.Equal(t, [][]string{
		{"date", "amount", "count", "ok"},
		{"2024-03-01", "12.5", "3", "true"},
	}, tbl.Records())
}

func TestSelectDropRename(t *testing.T) {
	tbl := sample(t)

	sel, err := tbl.Select("balance")
	require.NoError(t, err)
	assert.Equal(t, []string{"balance"}, sel.Names())
	assert.Equal(t, 3, sel.Nrows())

	dropped, err := tbl.Drop("balance")
	require.NoError(t, err)
	assert.Equal(t, []string{"account"}, dropped.Names())

	renamed, err := tbl.Rename(map[string]string{"balance": "amount"})
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "amount"}, renamed.Names())

	_, err = tbl.Select("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.Drop("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
	_, err = tbl.Rename(map[string]string{"nope": "x"})
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = tbl.Rename(map[string]string{"balance": "account"})
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	// The receiver is unchanged.
	assert.Equal(t, []string{"account", "balance"}, tbl.Names())
}

func TestWithColumnsReplacesAndAppends(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.WithColumns(
		NewFloatColumn("balance", []float64{1, 2, 3}),
		NewStringColumn("note", []string{"a", "b", "c"}),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"account", "balance", "note"}, out.Names())

	bal, err := out.Column("balance")
	require.NoError(t, err)
	assert.Equal(t, Float, bal.Type())

	orig, err := tbl.Column("balance")
	require.NoError(t, err)
	assert.Equal(t, String, orig.Type())
}

func TestFilterKeepsOrder(t *testing.T) {
	tbl := sample(t)
	out := tbl.Filter(func(r Row) bool { return r.String("account") != "expenses:food" })

	col, err := out.Column("account")
	require.NoError(t, err)
	assert.Equal(t, []string{"assets:bank", "income:salary"}, col.Strings())
	assert.Equal(t, 3, tbl.Nrows())
}

func TestSetNames(t *testing.T) {
	tbl := sample(t)
	out, err := tbl.SetNames("a", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Names())

	_, err = tbl.SetNames("a")
	assert.Error(t, err)
}

func TestZeroTable(t *testing.T) {
	var tbl Table
	assert.Equal(t, 0, tbl.Nrows())
	assert.Empty(t, tbl.Names())
	assert.Equal(t, [][]string{{}}, tbl.Records())
}
