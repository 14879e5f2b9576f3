package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hltools-dev/hltools/internal/hledger"
	"github.com/hltools-dev/hltools/internal/table"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "hltools.yaml"

// EnvPrefix prefixes environment overrides, e.g. HLTOOLS_LEDGER_FILE.
const EnvPrefix = "HLTOOLS"

// Config represents the top-level hltools.yaml configuration.
type Config struct {
	Hledger  HledgerConfig  `yaml:"hledger" mapstructure:"hledger"`
	Ledger   LedgerConfig   `yaml:"ledger" mapstructure:"ledger"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Currency CurrencyConfig `yaml:"currency" mapstructure:"currency"`
	Git      GitConfig      `yaml:"git" mapstructure:"git"`
}

// HledgerConfig locates the hledger executable.
type HledgerConfig struct {
	Executable string `yaml:"executable" mapstructure:"executable"`
}

// LedgerConfig holds the options passed to every hledger invocation.
type LedgerConfig struct {
	File         string   `yaml:"file,omitempty" mapstructure:"file"`
	Begin        string   `yaml:"begin,omitempty" mapstructure:"begin"`
	End          string   `yaml:"end,omitempty" mapstructure:"end"`
	Period       string   `yaml:"period,omitempty" mapstructure:"period"`
	Periodic     string   `yaml:"periodic,omitempty" mapstructure:"periodic"`
	OtherOptions []string `yaml:"other_options,omitempty" mapstructure:"other_options"`
}

// ReportConfig sets defaults for the report command.
type ReportConfig struct {
	Format     string `yaml:"format" mapstructure:"format"`
	DateFormat string `yaml:"date_format" mapstructure:"date_format"`
}

// CurrencyConfig controls amount conversion.
type CurrencyConfig struct {
	Symbol string `yaml:"symbol" mapstructure:"symbol"`
}

// GitConfig controls the commit made by init.
type GitConfig struct {
	AuthorName  string `yaml:"author_name" mapstructure:"author_name"`
	AuthorEmail string `yaml:"author_email" mapstructure:"author_email"`
}

// Default returns a Config with sensible defaults for a new ledger directory.
func Default() *Config {
	return &Config{
		Hledger: HledgerConfig{
			Executable: hledger.DefaultExecutable,
		},
		Ledger: LedgerConfig{
			File: "main.journal",
		},
		Report: ReportConfig{
			Format:     "text",
			DateFormat: table.DefaultDateFormat,
		},
		Currency: CurrencyConfig{
			Symbol: table.DefaultCurrencySymbol,
		},
		Git: GitConfig{
			AuthorName:  "hltools",
			AuthorEmail: "hltools@localhost",
		},
	}
}

// Load reads configuration from path, environment variables and defaults,
// in decreasing order of precedence: environment, file, defaults. A missing
// file is not an error unless required is set.
func Load(path string, required bool) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	v.SetDefault("hledger.executable", def.Hledger.Executable)
	v.SetDefault("ledger.file", "")
	v.SetDefault("ledger.begin", "")
	v.SetDefault("ledger.end", "")
	v.SetDefault("ledger.period", "")
	v.SetDefault("ledger.periodic", "")
	v.SetDefault("ledger.other_options", []string{})
	v.SetDefault("report.format", def.Report.Format)
	v.SetDefault("report.date_format", def.Report.DateFormat)
	v.SetDefault("currency.symbol", def.Currency.Symbol)
	v.SetDefault("git.author_name", def.Git.AuthorName)
	v.SetDefault("git.author_email", def.Git.AuthorEmail)
	return v
}

// LoadEnv loads variables from a dotenv file into the process environment.
// An empty path tries .env in the working directory and ignores its absence.
func LoadEnv(path string) error {
	if path == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Options converts the ledger section into hledger options.
func (c *Config) Options() hledger.Options {
	return hledger.Options{
		File:         c.Ledger.File,
		Begin:        c.Ledger.Begin,
		End:          c.Ledger.End,
		Period:       c.Ledger.Period,
		Periodic:     c.Ledger.Periodic,
		OtherOptions: c.Ledger.OtherOptions,
	}
}
