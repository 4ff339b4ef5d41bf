// Package main provides integration tests for the amxx-release CLI.
package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yapb/amxx-release/internal/app"
)

var binaryPath string

var (
	errBuild  error
	buildOnce sync.Once
)

func ensureBinary() error {
	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "amxx-release-integration-test-*")
		if err != nil {
			errBuild = fmt.Errorf("failed to create temp dir: %w", err)
			return
		}

		binaryName := "amxx-release"
		if runtime.GOOS == "windows" {
			binaryName += ".exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		cmd := exec.CommandContext(context.Background(), "go", "build", "-o", binaryPath, ".")
		if bOutput, bErr := cmd.CombinedOutput(); bErr != nil {
			errBuild = fmt.Errorf("failed to build binary: %w\nOutput: %s", bErr, string(bOutput))
		}
	})
	return errBuild
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"amxx-release": func() {
			ctx := context.Background()
			if err := app.Run(ctx, os.Args, os.Stdout, os.Stderr, nil); err != nil {
				os.Exit(1)
			}
		},
	})
}

func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			// Never reach the real API from a script.
			env.Setenv("GITHUB_TOKEN", "")
			env.Setenv(app.ConfigEnvVar, "")
			env.Setenv(app.RootDirEnvVar, "")
			return nil
		},
	})
}

func TestBinary_Package(t *testing.T) {
	t.Parallel()
	if err := ensureBinary(); err != nil {
		t.Fatal(err)
	}

	rootDir := t.TempDir()
	src := filepath.Join(rootDir, "build_x86_macos", "yapb_amxx.dylib")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("MACHO"), 0o755))

	cmd := exec.CommandContext(context.Background(), binaryPath, "package", "--nocolour", "4.4.957")
	cmd.Env = append(os.Environ(), app.RootDirEnvVar+"="+rootDir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "stderr: %s", stderr.String())
	assert.Contains(t, stdout.String(), "[BUILT] yapb-amxx-module-4.4.957-macos.zip")
	assert.Contains(t, stderr.String(), "Generating macOS ZIP")
	assert.FileExists(t, filepath.Join(rootDir, "out", "yapb-amxx-module-4.4.957-macos.zip"))
}

func TestBinary_MissingVersion(t *testing.T) {
	t.Parallel()
	if err := ensureBinary(); err != nil {
		t.Fatal(err)
	}

	cmd := exec.CommandContext(context.Background(), binaryPath)
	cmd.Env = append(os.Environ(), app.RootDirEnvVar+"="+t.TempDir())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stderr.String(), "Error: accepts 1 arg(s), received 0")
}
