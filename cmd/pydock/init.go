// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pydock/pkg/buildfile"
)

var (
	initForce    bool
	initTemplate string

	// initCmd creates a new pydock.cue
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a new pydock.cue in the current directory",
		Long: `Create a new pydock.cue in the current directory.

This command generates a starter build description. The 'minimal' template
only pins the Python version; 'full' also shows manifest, entry point,
environment, and port settings.`,
		RunE: runInitCmd,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing pydock.cue")
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", "default", "template to use (default, minimal, full)")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	filename := buildfile.DefaultFileName

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content, err := generateBuildfile(initTemplate)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. List your dependencies in requirements.txt")
	fmt.Println("  2. Point image.entrypoint at your main script")
	fmt.Println("  3. Run 'pydock run' to build and start the container")

	return nil
}

func generateBuildfile(template string) (string, error) {
	switch template {
	case "minimal":
		return `image: python: "3.12"
`, nil

	case "full":
		return `// pydock build description.
// Every field is optional; defaults are shown where they apply.

name: "my-service"

image: {
	// Base image: python:<version>-slim
	python: "3.12"

	// Dependency manifest, installed before the workspace is copied.
	manifest: "requirements.txt"

	// Script started as the container's single foreground process.
	entrypoint: "main.py"

	// Working directory inside the image.
	workdir: "/app"

	// Environment variables baked into the image.
	env: {
		PYTHONUNBUFFERED: "1"
	}
}

run: {
	// Port mappings applied by 'pydock run'.
	ports: ["8000:8000"]

	// Environment variables for the running container.
	env: {}
}
`, nil

	case "default":
		return `// pydock build description. Run 'pydock build' to build the image.

image: {
	python:     "3.12"
	manifest:   "requirements.txt"
	entrypoint: "main.py"
}
`, nil

	default:
		return "", fmt.Errorf("unknown template %q (valid: default, minimal, full)", template)
	}
}
