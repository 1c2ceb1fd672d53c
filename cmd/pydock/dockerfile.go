// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pydock/internal/image"
)

// dockerfileCmd prints the generated Dockerfile without building anything
var dockerfileCmd = &cobra.Command{
	Use:   "dockerfile [dir]",
	Short: "Print the Dockerfile that would be used to build the project",
	Long: `Print the Dockerfile that would be used to build the project.

The output is exactly what 'pydock build' feeds to the container engine,
so it can be inspected, committed, or piped to other tooling.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDockerfile,
}

func runDockerfile(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	bf, _, err := loadProjectBuildfile(projectDir)
	if err != nil {
		return displayError(err)
	}

	spec, err := image.NewBuildSpec(bf)
	if err != nil {
		return displayError(err)
	}

	fmt.Print(image.GenerateDockerfile(spec))
	return nil
}
