//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Pipeline runs every stage end to end with default settings: both
// collectors, union-list construction, the coverage query and merge, and
// the final report. Each stage reads the previous stage's dated artifacts,
// so a failed run can resume by invoking the remaining stages directly.
func Pipeline() error {
	mg.Deps(Build)

	stages := [][]string{
		{"collect", "retractionwatch"},
		{"collect", "pubmed"},
		{"unionlist"},
		{"coverage", "query"},
		{"coverage", "merge"},
		{"report"},
		{"store", "index"},
	}

	bin := filepath.Join(binDir, binName)
	for _, stage := range stages {
		fmt.Printf("==> retraction-index %v\n", stage)
		cmd := exec.Command(bin, stage...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("stage %v: %w", stage, err)
		}
	}
	return nil
}
