// Package main builds the amxx-release binary into bin/ with the version stamped in.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/yapb/amxx-release/internal/app.Version"

func main() {
	binaryName := "amxx-release"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	// Get version
	versionOut, err := exec.Command("go", "run", "./scripts/version").Output()
	version := strings.TrimSpace(string(versionOut))
	if err != nil || version == "" {
		version = "dev"
	}

	ldflags := fmt.Sprintf("-s -w -X %s=%s", versionVar, version)

	// Ensure bin directory exists
	if err = os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building amxx-release %s...\n", version)

	cmd := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/amxx-release")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}
