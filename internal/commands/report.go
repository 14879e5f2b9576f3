package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hltools-dev/hltools/internal/export"
	"github.com/hltools-dev/hltools/internal/table"
)

// reportOptions selects the transforms applied to an hledger CSV report.
type reportOptions struct {
	infer         bool
	filter        []string
	exclude       []string
	accountColumn string
	transpose     bool
	idColumn      string
	currency      bool
	symbol        string
	preserve      []string
	toDate        bool
	dateColumn    string
	dateFormat    string
	fill          string
}

// buildReport loads hledger CSV output and applies the selected transforms in
// a fixed order: filter, exclude, transpose, currency, dates, fill.
func buildReport(csvText string, o reportOptions) (table.Table, error) {
	tbl, err := table.FromCSV(csvText, table.InferSchema(o.infer))
	if err != nil {
		return table.Table{}, fmt.Errorf("loading report: %w", err)
	}

	accountCol := o.accountColumn
	if accountCol == "" && tbl.HasColumn("Account") && !tbl.HasColumn(table.DefaultAccountColumn) {
		accountCol = "Account"
	}
	if accountCol == "" {
		accountCol = table.DefaultAccountColumn
	}

	if len(o.filter) > 0 {
		tbl, err = tbl.FilterAccounts(o.filter, table.AccountColumn(accountCol))
		if err != nil {
			return table.Table{}, fmt.Errorf("filtering accounts: %w", err)
		}
	}
	if len(o.exclude) > 0 {
		tbl, err = tbl.FilterAccounts(o.exclude, table.AccountColumn(accountCol), table.Exclude())
		if err != nil {
			return table.Table{}, fmt.Errorf("excluding accounts: %w", err)
		}
	}

	if o.transpose {
		var opts []table.TransposeOption
		if o.idColumn != "" {
			opts = append(opts, table.IDColumn(o.idColumn))
		}
		tbl, err = tbl.Transpose(opts...)
		if err != nil {
			return table.Table{}, fmt.Errorf("transposing: %w", err)
		}
	}

	if o.currency {
		tbl, err = tbl.CurrencyToNumber(table.Symbol(o.symbol), table.Preserve(o.preserve...))
		if err != nil {
			return table.Table{}, fmt.Errorf("converting amounts: %w", err)
		}
	}

	if o.toDate || o.fill != "" {
		tbl, err = tbl.ToDatetime(o.dateColumn, o.dateFormat)
		if err != nil {
			return table.Table{}, fmt.Errorf("parsing dates: %w", err)
		}
	}
	if o.fill != "" {
		tbl, err = tbl.FillMissingDates(o.dateColumn, o.fill)
		if err != nil {
			return table.Table{}, fmt.Errorf("filling dates: %w", err)
		}
	}

	return tbl, nil
}

func newReportCommand(a *app) *cobra.Command {
	var flags runFlags
	var o reportOptions
	var format, out string

	cmd := &cobra.Command{
		Use:   "report <subcommand> [accounts...] [-- hledger options...]",
		Short: "Run an hledger report as CSV and reshape it",
		Long: `Runs an hledger subcommand with --output-format=csv, loads the result
into a table and applies, in order: --filter, --exclude, --transpose,
--currency, --to-date and --fill.`,
		Example: `  hltools report balance expenses --periodic monthly --transpose --currency
  hltools report is --filter '^expenses:(food|rent)' --format xlsx --out is.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, args)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("symbol") {
				o.symbol = a.cfg.Currency.Symbol
			}
			if !cmd.Flags().Changed("date-format") {
				o.dateFormat = a.cfg.Report.DateFormat
			}
			if !cmd.Flags().Changed("format") {
				format = a.cfg.Report.Format
				if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext == "csv" || ext == "xlsx" {
					format = ext
				}
			}
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			for _, p := range append(append([]string{}, o.filter...), o.exclude...) {
				if _, err := regexp.Compile(p); err != nil {
					return fmt.Errorf("invalid account pattern %q: %w", p, err)
				}
			}

			res, err := a.hledger("csv").Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			tbl, err := buildReport(res.Text, o)
			if err != nil {
				return err
			}
			a.logger.Debug("report built",
				zap.Int("rows", tbl.Nrows()),
				zap.Strings("columns", tbl.Names()),
			)

			if out == "" || out == "-" {
				return export.Write(cmd.OutOrStdout(), tbl, f)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer file.Close()
			if err := export.Write(file, tbl, f); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			return file.Close()
		},
	}

	flags.register(cmd)
	fl := cmd.Flags()
	fl.BoolVar(&o.infer, "infer", false, "infer column types from the CSV")
	fl.StringArrayVar(&o.filter, "filter", nil, "keep accounts matching this regex (repeatable)")
	fl.StringArrayVar(&o.exclude, "exclude", nil, "drop accounts matching this regex (repeatable)")
	fl.StringVar(&o.accountColumn, "account-column", "", "account column name (default account)")
	fl.BoolVarP(&o.transpose, "transpose", "t", false, "swap accounts and periods")
	fl.StringVar(&o.idColumn, "id-column", "", "identifier column for --transpose")
	fl.BoolVarP(&o.currency, "currency", "c", false, "convert amounts to numbers")
	fl.StringVar(&o.symbol, "symbol", table.DefaultCurrencySymbol, "currency symbol stripped by --currency")
	fl.StringSliceVar(&o.preserve, "preserve", []string{"account", "Account", "date"}, "columns --currency leaves as text")
	fl.BoolVar(&o.toDate, "to-date", false, "parse the date column with --date-format")
	fl.StringVar(&o.dateColumn, "date-column", table.DefaultDateColumn, "date column name")
	fl.StringVar(&o.dateFormat, "date-format", table.DefaultDateFormat, "strftime format of the date column")
	fl.StringVar(&o.fill, "fill", "", "insert missing dates at this step (1d, 1w, 1mo, 1q, 1y)")
	fl.StringVar(&format, "format", "text", "output format: text, csv or xlsx")
	fl.StringVarP(&out, "out", "o", "", "output file (default stdout)")

	return cmd
}
