package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hltools-dev/hltools/internal/hledger"
)

// runFlags are the per-call hledger settings shared by run and report.
type runFlags struct {
	ignore []string
	opts   []string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.ignore, "ignore", "i", nil, "account to exclude (repeatable)")
	cmd.Flags().StringArrayVar(&f.opts, "opt", nil, "extra hledger option (repeatable)")
}

// request builds the hledger request from positional arguments: the
// subcommand, then accounts, then anything after "--" as raw options.
func (f *runFlags) request(cmd *cobra.Command, args []string) (hledger.Request, error) {
	positional, extra := splitAtDash(cmd, args)
	if len(positional) == 0 {
		return hledger.Request{}, errors.New("subcommand must come before --")
	}
	return hledger.Request{
		Subcommand:   positional[0],
		Accounts:     positional[1:],
		Ignore:       f.ignore,
		ExtraOptions: append(append([]string{}, f.opts...), extra...),
	}, nil
}

func newRunCommand(a *app) *cobra.Command {
	var flags runFlags
	var outputFormat string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run <subcommand> [accounts...] [-- hledger options...]",
		Short: "Run an hledger subcommand and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd, args)
			if err != nil {
				return err
			}

			hl := a.hledger(outputFormat)
			if dryRun {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), shellJoin(hl.Args(req)))
				return err
			}

			res, err := hl.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), res.Text)
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&outputFormat, "output-format", "O", "", "hledger output format (txt, csv, tsv, json, html)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the hledger command line instead of running it")

	return cmd
}
