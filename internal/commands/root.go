package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hltools-dev/hltools/internal/buildinfo"
	"github.com/hltools-dev/hltools/internal/config"
	"github.com/hltools-dev/hltools/internal/hledger"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	envPath    string
	verbose    bool

	// Overrides for the ledger section of the config.
	executable string
	file       string
	begin      string
	end        string
	period     string
	periodic   string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:     "hltools",
		Short:   "Scripting helpers around hledger reports",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultFile, "config file")
	pf.StringVar(&a.envPath, "env", "", "dotenv file (default .env if present)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.executable, "hledger", "", "hledger executable")
	pf.StringVarP(&a.file, "file", "f", "", "journal file")
	pf.StringVarP(&a.begin, "begin", "b", "", "begin date")
	pf.StringVarP(&a.end, "end", "e", "", "end date")
	pf.StringVarP(&a.period, "period", "p", "", "period expression")
	pf.StringVar(&a.periodic, "periodic", "", "report interval flag, e.g. monthly")

	rootCmd.AddCommand(newRunCommand(a))
	rootCmd.AddCommand(newReportCommand(a))
	rootCmd.AddCommand(newInitCommand(a))
	rootCmd.AddCommand(newVersionCommand(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := newLogger(a.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger

	if err := config.LoadEnv(a.envPath); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	override("hledger", &cfg.Hledger.Executable, a.executable)
	override("file", &cfg.Ledger.File, a.file)
	override("begin", &cfg.Ledger.Begin, a.begin)
	override("end", &cfg.Ledger.End, a.end)
	override("period", &cfg.Ledger.Period, a.period)
	override("periodic", &cfg.Ledger.Periodic, a.periodic)

	a.cfg = cfg
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.String("hledger", cfg.Hledger.Executable),
		zap.String("file", cfg.Ledger.File),
	)
	return nil
}

// hledger returns a Command for the loaded configuration, optionally forcing
// an output format.
func (a *app) hledger(outputFormat string) *hledger.Command {
	opts := a.cfg.Options()
	if outputFormat != "" {
		opts.OutputFormat = outputFormat
	}
	return hledger.New(opts,
		hledger.WithExecutable(a.cfg.Hledger.Executable),
		hledger.WithLogger(a.logger),
	)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

// splitAtDash separates positional accounts from raw hledger options given
// after "--".
func splitAtDash(cmd *cobra.Command, args []string) (accounts, extra []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}
