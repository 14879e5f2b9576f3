package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hltools-dev/hltools/internal/config"
	"github.com/hltools-dev/hltools/internal/gitops"
)

func newInitCommand(a *app) *cobra.Command {
	var journal string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Set up a ledger directory with an hltools config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, journal, !noGit)
		},
	}

	cmd.Flags().StringVar(&journal, "journal", "main.journal", "journal file to create")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "skip git initialization")

	return cmd
}

func runInit(ctx context.Context, w io.Writer, dir, journal string, useGit bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.DefaultFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	// Write hltools.yaml.
	cfg := config.Default()
	cfg.Ledger.File = journal
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the journal unless one is already there.
	journalPath := filepath.Join(dir, journal)
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
			return fmt.Errorf("creating journal directory: %w", err)
		}
		if err := os.WriteFile(journalPath, nil, 0o644); err != nil {
			return fmt.Errorf("writing journal: %w", err)
		}
	}

	// Keep exports and secrets out of version control.
	gitignore := "*.xlsx\n.env\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !useGit || gitops.IsRepo(dir) {
		_, err := fmt.Fprintf(w, "Initialized hltools ledger at %s\n", dir)
		return err
	}

	if err := gitops.Init(ctx, dir); err != nil {
		return fmt.Errorf("git init: %w", err)
	}

	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize ledger", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	_, err = fmt.Fprintf(w, "Initialized hltools ledger at %s (%s)\n", dir, hash)
	return err
}
