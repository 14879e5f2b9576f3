// Package hledger builds hledger command lines and runs them as subprocesses.
package hledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultExecutable is the hledger binary looked up on PATH.
const DefaultExecutable = "hledger"

// Options are the global settings applied to every invocation. Empty fields
// are omitted from the command line.
type Options struct {
	File         string
	Begin        string
	End          string
	Period       string
	Periodic     string // bare flag name, e.g. "monthly"
	OutputFormat string
	OtherOptions []string
}

// Request holds the per-call parameters of a single Run.
type Request struct {
	Subcommand   string
	Accounts     []string
	Ignore       []string
	ExtraOptions []string
}

// Command runs hledger with a fixed set of Options.
type Command struct {
	exe    string
	opts   Options
	logger *zap.Logger
}

// Option configures a Command.
type Option func(*Command)

// WithExecutable overrides the hledger binary path.
func WithExecutable(path string) Option {
	return func(c *Command) {
		if path != "" {
			c.exe = path
		}
	}
}

// WithLogger sets the logger used for subprocess diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Command) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Command.
func New(opts Options, options ...Option) *Command {
	c := &Command{
		exe:    DefaultExecutable,
		opts:   opts,
		logger: zap.NewNop(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Options returns the global options of c.
func (c *Command) Options() Options {
	return c.opts
}

// Args returns the full argument list for req, executable first.
func (c *Command) Args(req Request) []string {
	return BuildArgs(c.exe, c.opts, req)
}

// BuildArgs assembles the argument list in the order hledger expects:
// executable, subcommand, global flags, extra options, accounts, then ignored
// accounts as not: queries.
func BuildArgs(exe string, opts Options, req Request) []string {
	args := make([]string, 0, 8+len(opts.OtherOptions)+len(req.ExtraOptions)+len(req.Accounts)+len(req.Ignore))
	args = append(args, exe, req.Subcommand)

	if opts.File != "" {
		args = append(args, "--file="+opts.File)
	}
	if opts.Period != "" {
		args = append(args, "--period="+opts.Period)
	}
	if opts.Begin != "" {
		args = append(args, "--begin="+opts.Begin)
	}
	if opts.End != "" {
		args = append(args, "--end="+opts.End)
	}
	if opts.Periodic != "" {
		args = append(args, "--"+opts.Periodic)
	}
	if opts.OutputFormat != "" {
		args = append(args, "--output-format="+opts.OutputFormat)
	}

	args = append(args, opts.OtherOptions...)
	args = append(args, req.ExtraOptions...)
	args = append(args, req.Accounts...)
	for _, acct := range req.Ignore {
		args = append(args, "not:"+acct)
	}
	return args
}

// Result is the captured standard output of one hledger invocation.
type Result struct {
	Text   string
	Format string // output format the text was requested in, if any
}

// Structured reports whether an explicit output format was requested.
func (r *Result) Structured() bool {
	return r.Format != ""
}

// Reader returns a new seekable reader over the output text.
func (r *Result) Reader() io.ReadSeeker {
	return strings.NewReader(r.Text)
}

func (r *Result) String() string {
	return r.Text
}

// ExternalToolError reports a non-zero exit status from hledger.
type ExternalToolError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with status %d", e.Args[0], e.ExitCode)
	}
	return fmt.Sprintf("%s exited with status %d: %s", e.Args[0], e.ExitCode, msg)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// Run executes hledger for req and returns its standard output.
// A non-zero exit status yields an *ExternalToolError.
func (c *Command) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Subcommand == "" {
		return nil, errors.New("hledger: subcommand is required")
	}

	args := c.Args(req)
	stdout, err := c.exec(ctx, args)
	if err != nil {
		return nil, err
	}
	return &Result{Text: stdout, Format: c.opts.OutputFormat}, nil
}

// Version returns the first line of `hledger --version`.
func (c *Command) Version(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, []string{c.exe, "--version"})
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	return line, nil
}

// Available reports whether the hledger executable can be run.
func (c *Command) Available(ctx context.Context) bool {
	_, err := c.Version(ctx)
	return err == nil
}

func (c *Command) exec(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("running hledger", zap.Strings("args", args))
	start := time.Now()

	err := cmd.Run()
	elapsed := time.Since(start)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			c.logger.Warn("hledger failed",
				zap.Strings("args", args),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.String("stderr", stderr.String()),
				zap.Duration("elapsed", elapsed),
			)
			return "", &ExternalToolError{
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
				Err:      err,
			}
		}
		if ctx.Err() != nil {
			return "", fmt.Errorf("running %s: %w", args[0], ctx.Err())
		}
		return "", fmt.Errorf("running %s: %w", args[0], err)
	}

	c.logger.Debug("hledger finished",
		zap.Int("stdout_bytes", stdout.Len()),
		zap.Duration("elapsed", elapsed),
	)
	return stdout.String(), nil
}
