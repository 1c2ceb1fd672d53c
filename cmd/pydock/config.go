// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pydock/internal/config"
)

// configCmd manages the user-level configuration file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pydock configuration",
	Long: `Manage pydock configuration.

Configuration is stored in:
  - Linux: ~/.config/pydock/config.cue
  - macOS: ~/Library/Application Support/pydock/config.cue
  - Windows: %APPDATA%\pydock\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})
}

func showConfig() error {
	// The configuration was already resolved by initRootConfig; reuse it
	// instead of loading the file a second time.
	printConfig(os.Stdout, appConfig, appConfigPath)
	return nil
}

func printConfig(w io.Writer, cfg *config.Config, source string) {
	if source == "" {
		source = "(defaults, no config file)"
	}

	fmt.Fprintln(w, TitleStyle.Render("pydock configuration"))
	fmt.Fprintln(w, SubtitleStyle.Render("source: "+source))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  container_engine: %s\n", cfg.ContainerEngine)
	fmt.Fprintf(w, "  ui.verbose:       %t\n", cfg.UI.Verbose)
	fmt.Fprintf(w, "  ui.color_scheme:  %s\n", cfg.UI.ColorScheme)
	fmt.Fprintf(w, "  build.no_cache:   %t\n", cfg.Build.NoCache)
	fmt.Fprintf(w, "  build.pull_base:  %t\n", cfg.Build.PullBase)
}

func showConfigPath() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func initConfigFile() error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	content := `// pydock configuration. All fields are optional.

// Container engine: "auto" probes for podman first, then docker.
container_engine: "auto"

ui: {
	verbose:      false
	color_scheme: "auto"
}

build: {
	no_cache:  false
	pull_base: false
}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
