// Package export renders tables as text, CSV or spreadsheets.
package export

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/hltools-dev/hltools/internal/table"
)

// Format is an output format name.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultSheet is the worksheet name used by WriteXLSX.
const DefaultSheet = "Sheet1"

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, csv or xlsx)", s)
	}
}

// Write renders t to w in format f.
func Write(w io.Writer, t table.Table, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, t)
	case FormatCSV:
		return t.WriteCSV(w)
	case FormatXLSX:
		return WriteXLSX(w, t, DefaultSheet)
	default:
		return fmt.Errorf("unknown output format %q", f)
	}
}

// WriteText writes t as space-aligned columns.
func WriteText(w io.Writer, t table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, rec := range t.Records() {
		if _, err := fmt.Fprintln(tw, strings.Join(rec, "\t")); err != nil {
			return fmt.Errorf("writing text: %w", err)
		}
	}
	return tw.Flush()
}

// WriteXLSX writes t as a single-sheet workbook. Numbers, booleans and dates
// are stored as typed cells; nulls are left blank.
func WriteXLSX(w io.Writer, t table.Table, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheet
	}
	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("naming sheet: %w", err)
		}
	}

	for ci, name := range t.Names() {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("writing header %q: %w", name, err)
		}
	}

	for ci, col := range t.Columns() {
		for ri := 0; ri < col.Len(); ri++ {
			v := col.Value(ri)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return fmt.Errorf("cell %d,%d: %w", ri, ci, err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
		colName, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return fmt.Errorf("column %d: %w", ci, err)
		}
		if err := f.SetColWidth(sheet, colName, colName, 15); err != nil {
			return fmt.Errorf("sizing column %s: %w", colName, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing xlsx: %w", err)
	}
	return nil
}
