package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.journal"), []byte("; ledger\n"), 0o644))

	hash, err := CommitAll(ctx, dir, "init: test commit", "Test Author", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "init: test commit")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	out, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Test Author <test@example.com>")
}

func TestCommitAllNothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	_, err := CommitAll(ctx, dir, "empty", "Test Author", "test@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git commit")
}

func TestGitVerb(t *testing.T) {
	assert.Equal(t, "commit", gitVerb([]string{"-c", "user.name=x", "-c", "user.email=y", "commit", "-m", "msg"}))
	assert.Equal(t, "add", gitVerb([]string{"add", "-A"}))
	assert.Equal(t, "", gitVerb(nil))
}
