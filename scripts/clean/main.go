// Package main removes build output, packaging output and test artefacts.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	// Packaging writes its staging tree to dist/ and the archives to out/.
	cleanDirs([]string{"bin", "dist", "out"})
	cleanFiles([]string{".amxx-release.log"})
	cleanPatterns([]string{"coverage*", "*.out", "*.test", "*.coverprofile"})
}

func cleanDirs(dirs []string) {
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			fmt.Printf("❌ Failed to remove dir %s: %v\n", dir, err)
			continue
		}
		fmt.Printf("✅ Removed dir %s\n", dir)
	}
}

func cleanFiles(files []string) {
	for _, file := range files {
		err := os.Remove(file)
		switch {
		case err == nil:
			fmt.Printf("✅ Removed file %s\n", file)
		case !os.IsNotExist(err):
			fmt.Printf("❌ Failed to remove file %s: %v\n", file, err)
		}
	}
}

func cleanPatterns(patterns []string) {
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			if rErr := os.RemoveAll(match); rErr != nil {
				fmt.Printf("❌ Failed to remove %s: %v\n", match, rErr)
			} else {
				fmt.Printf("✅ Removed %s\n", match)
			}
		}
	}
}
