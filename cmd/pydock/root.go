// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pydock/internal/config"
	"pydock/internal/container"
	"pydock/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging and full error chains
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// appConfig is the resolved user configuration, loaded once before any
	// subcommand runs.
	appConfig = config.DefaultConfig()
	// appConfigPath is the config file the configuration was loaded from,
	// empty when running on defaults.
	appConfigPath string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "pydock",
		Short: "Build and run containerized Python services",
		Long: TitleStyle.Render("pydock") + SubtitleStyle.Render(" - Build and run containerized Python services") + `

pydock turns a Python project into a runnable container image: it pins an
interpreter base image, installs the dependency manifest before copying the
rest of the workspace (so dependency layers stay cached across source edits),
and starts the declared entry point as the container's single foreground
process.

Projects are described in an optional 'pydock.cue' file; without one,
sensible defaults apply (Python ` + "3.12" + `, requirements.txt, main.py).

` + SubtitleStyle.Render("Examples:") + `
  pydock build              Build an image for the current directory
  pydock run                Build if needed, then run the image
  pydock dockerfile         Print the generated Dockerfile
  pydock init               Create a starter pydock.cue
  pydock config show        Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pydock/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dockerfileCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads the config file before any subcommand runs.
func initRootConfig() {
	cfg, path, err := config.Load(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		// Surface config problems but keep going on defaults.
		renderIssue(issue.ConfigLoadFailedId)
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		return
	}
	appConfig = cfg
	appConfigPath = path

	// Apply verbose from config if not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// resolveEngine picks the container engine per configuration, falling back to
// auto-detection. Failures render the engine-not-found issue.
func resolveEngine() (container.Engine, error) {
	var (
		engine container.Engine
		err    error
	)

	switch appConfig.ContainerEngine {
	case config.ContainerEngineDocker:
		engine, err = container.NewEngine(container.EngineTypeDocker)
	case config.ContainerEnginePodman:
		engine, err = container.NewEngine(container.EngineTypePodman)
	default:
		engine, err = container.AutoDetectEngine()
	}

	if err != nil {
		renderIssue(issue.ContainerEngineNotFoundId)
		return nil, err
	}

	log.Debug("resolved container engine", "engine", engine.Name())
	return engine, nil
}

// renderIssue prints a catalog entry to stderr. Rendering failures are
// dropped so the underlying error still reaches the user.
func renderIssue(id issue.Id) {
	if rendered, err := issue.Get(id).Render("dark"); err == nil {
		fmt.Fprint(os.Stderr, rendered)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
