package repo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	dir string
}

// NewCLIGitter creates a CLIGitter that runs git inside dir.
func NewCLIGitter(dir string) *CLIGitter {
	return &CLIGitter{dir: dir}
}

func (g *CLIGitter) command(ctx context.Context, args ...string) *exec.Cmd {
	//nolint:gosec // arguments are built internally
	return exec.CommandContext(ctx, "git", append([]string{"-C", g.dir}, args...)...)
}

// HeadCommit returns the hash and full message of HEAD.
func (g *CLIGitter) HeadCommit(ctx context.Context) (Commit, error) {
	cmd := g.command(ctx, "log", "-1", "--format=%H%x00%B")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Commit{}, fmt.Errorf("could not read HEAD commit: %w (output: %s)", err, strings.TrimSpace(stderr.String()))
	}

	sha, msg, ok := strings.Cut(out.String(), "\x00")
	if !ok {
		return Commit{}, fmt.Errorf("unexpected git log output: %q", out.String())
	}
	return Commit{
		SHA:     Revision(strings.TrimSpace(sha)),
		Message: strings.TrimRight(msg, "\n"),
	}, nil
}

// LocalTag resolves a tag to the commit it points to.
func (g *CLIGitter) LocalTag(ctx context.Context, name string) (Revision, bool, error) {
	cmd := g.command(ctx, "rev-parse", "--verify", "--quiet", "refs/tags/"+name+"^{commit}")
	out, err := cmd.Output()
	if err != nil {
		// --verify --quiet exits 1 without output when the ref is missing.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to resolve tag %s: %w", name, err)
	}
	return Revision(strings.TrimSpace(string(out))), true, nil
}
