package gitops

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	if _, err := git(ctx, dir, "init", "--quiet"); err != nil {
		return err
	}
	return nil
}

// CommitAll stages every file under dir and commits. Returns the short commit hash.
func CommitAll(ctx context.Context, dir, message, authorName, authorEmail string) (string, error) {
	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)

	if _, err := git(ctx, dir, "add", "-A"); err != nil {
		return "", err
	}

	// Committer identity may be unset on fresh machines; reuse the author.
	if _, err := git(ctx, dir,
		"-c", "user.name="+authorName,
		"-c", "user.email="+authorEmail,
		"commit", "--quiet", "-m", message, "--author", author,
	); err != nil {
		return "", err
	}

	out, err := git(ctx, dir, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

func git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %s: %w", gitVerb(args), strings.TrimSpace(stderr.String()), err)
	}
	return stdout.String(), nil
}

// gitVerb returns the subcommand in args, skipping -c key=value pairs.
func gitVerb(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-c" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}
