package repo

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	git := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
	}

	git("init")
	git("config", "user.email", "test@example.com")
	git("config", "user.name", "Test User")
	git("commit", "--allow-empty", "-m", "initial commit")
	git("commit", "--allow-empty", "-m", "Bump version\n\nFixes crash on map change.")
	git("tag", "4.3")

	return dir
}

func revParse(t *testing.T, dir, rev string) Revision {
	t.Helper()
	cmd := exec.Command("git", "rev-parse", rev)
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return Revision(strings.TrimSpace(string(out)))
}

func TestCLIGitter_HeadCommit(t *testing.T) {
	t.Parallel()

	t.Run("returns hash and full message", func(t *testing.T) {
		t.Parallel()
		dir := setupTestRepo(t)

		c, err := NewCLIGitter(dir).HeadCommit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, revParse(t, dir, "HEAD"), c.SHA)
		assert.Equal(t, "Bump version\n\nFixes crash on map change.", c.Message)
	})

	t.Run("error - not a git repo", func(t *testing.T) {
		t.Parallel()
		_, err := NewCLIGitter(t.TempDir()).HeadCommit(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not read HEAD commit")
	})
}

func TestCLIGitter_LocalTag(t *testing.T) {
	t.Parallel()
	dir := setupTestRepo(t)
	g := NewCLIGitter(dir)

	t.Run("tag found", func(t *testing.T) {
		t.Parallel()
		rev, ok, err := g.LocalTag(context.Background(), "4.3")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, revParse(t, dir, "HEAD"), rev)
	})

	t.Run("tag missing", func(t *testing.T) {
		t.Parallel()
		rev, ok, err := g.LocalTag(context.Background(), "9.9")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, rev)
	})

	t.Run("error - not a git repo", func(t *testing.T) {
		t.Parallel()
		_, _, err := NewCLIGitter(t.TempDir()).LocalTag(context.Background(), "4.3")
		require.Error(t, err)
	})
}

func TestRevision_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "abc123", Revision("abc123").String())
}
