// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pydock/internal/image"
	"pydock/internal/issue"
	"pydock/internal/runtime"
)

var (
	runPorts   []string
	runEnv     []string
	runName    string
	runKeep    bool
	runNoBuild bool

	// runCmd builds the project image if needed and runs it in the foreground
	runCmd = &cobra.Command{
		Use:   "run [dir]",
		Short: "Run a Python project as a foreground container",
		Long: `Run a Python project as a foreground container.

The image is built first when the project's contents have changed (use
--no-build to require an existing image). The container runs the entry
point declared in pydock.cue as its single foreground process; its exit
code becomes pydock's exit code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRun,
	}
)

func init() {
	runCmd.Flags().StringArrayVarP(&runPorts, "publish", "p", nil, "extra port mapping host:container[/protocol] (repeatable)")
	runCmd.Flags().StringArrayVarP(&runEnv, "env", "e", nil, "extra environment variable KEY=VALUE (repeatable)")
	runCmd.Flags().StringVar(&runName, "name", "", "container name (default: buildfile name)")
	runCmd.Flags().BoolVar(&runKeep, "keep", false, "keep the exited container instead of removing it")
	runCmd.Flags().BoolVar(&runNoBuild, "no-build", false, "fail instead of building when no image exists for the project")
}

func runRun(cmd *cobra.Command, args []string) error {
	projectDir := "."
	if len(args) > 0 {
		projectDir = args[0]
	}

	envOverrides, err := parseEnvFlags(runEnv)
	if err != nil {
		return displayError(err)
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
		NoCache:  appConfig.Build.NoCache,
		PullBase: appConfig.Build.PullBase,
	})

	var tag string
	if runNoBuild {
		tag, err = builder.Tag(root, bf)
		if err != nil {
			return displayError(err)
		}
		built, err := builder.IsBuilt(cmd.Context(), root, bf)
		if err != nil {
			return displayError(err)
		}
		if !built {
			return displayError(fmt.Errorf("no image %s for the project's current contents; run 'pydock build' first", tag))
		}
	} else {
		result, err := builder.Build(cmd.Context(), root, bf)
		if err != nil {
			renderIssue(buildIssueID(err))
			return displayError(err)
		}
		tag = result.Tag
	}

	runner := runtime.NewRunner(engine)
	result, err := runner.Run(cmd.Context(), tag, bf, runtime.Options{
		Ports:         runPorts,
		Env:           envOverrides,
		Name:          runName,
		KeepContainer: runKeep,
	})
	if err != nil {
		renderIssue(issue.ContainerStartFailedId)
		return displayError(err)
	}

	// Propagate the entry point's exit code verbatim.
	if !result.ExitCode.IsSuccess() {
		return &ExitError{Code: result.ExitCode}
	}
	return nil
}

// parseEnvFlags converts repeated KEY=VALUE flags to a map.
func parseEnvFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --env value %q: expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}
