// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pydock/internal/image"
	"pydock/internal/issue"
	"pydock/internal/manifest"
	"pydock/pkg/buildfile"
)

var (
	buildForce   bool
	buildNoCache bool
	buildPull    bool

	// buildCmd builds a content-addressed image for a project
	buildCmd = &cobra.Command{
		Use:   "build [dir]",
		Short: "Build a container image for a Python project",
		Long: `Build a container image for a Python project.

The project directory (default: current directory) is described by an
optional pydock.cue. The image tag is derived from the project contents;
when an image with that tag already exists locally, the build is skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().BoolVarP(&buildForce, "force", "f", false, "rebuild even when the image already exists")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "disable the engine's layer cache")
	buildCmd.Flags().BoolVar(&buildPull, "pull", false, "always pull the pinned base image")
}

func runBuild(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	bf, root, err := loadProjectBuildfile(projectDir)
	if err != nil {
		return displayError(err)
	}

	engine, err := resolveEngine()
	if err != nil {
		return err
	}

	builder := image.NewBuilder(engine, image.Options{
		ForceRebuild: buildForce,
		NoCache:      buildNoCache || appConfig.Build.NoCache,
		PullBase:     buildPull || appConfig.Build.PullBase,
	})

	result, err := builder.Build(cmd.Context(), root, bf)
	if err != nil {
		renderIssue(buildIssueID(err))
		return displayError(err)
	}

	if result.Cached {
		fmt.Printf("%s Image %s up to date (build skipped)\n",
			SuccessStyle.Render("✓"), CmdStyle.Render(result.Tag))
	} else {
		fmt.Printf("%s Built %s (%d dependencies)\n",
			SuccessStyle.Render("✓"), CmdStyle.Render(result.Tag), result.Manifest.Len())
	}

	return nil
}

// loadProjectBuildfile resolves the buildfile for dir, rendering the
// parse-error catalog entry when the file exists but cannot be parsed. In
// verbose mode a missing buildfile gets a hint that defaults are in effect.
func loadProjectBuildfile(dir string) (*buildfile.Buildfile, string, error) {
	bf, root, err := buildfile.Load(dir)
	if err != nil {
		renderIssue(issue.BuildfileParseErrorId)
		return nil, "", err
	}
	if verbose && bf.FilePath == "" {
		renderIssue(issue.BuildfileNotFoundId)
	}
	return bf, root, nil
}

// buildIssueID maps an image build failure to the catalog entry describing
// it. Manifest problems surface before the engine is invoked and get their
// own entries; everything else is an engine-side build failure.
func buildIssueID(err error) issue.Id {
	switch {
	case errors.Is(err, manifest.ErrNotFound):
		return issue.ManifestNotFoundId
	case errors.Is(err, manifest.ErrInvalidRequirement):
		return issue.ManifestParseErrorId
	default:
		return issue.ImageBuildFailedId
	}
}

// displayError prints an actionable error to stderr and returns it so Cobra
// reports a non-zero exit.
func displayError(err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}
