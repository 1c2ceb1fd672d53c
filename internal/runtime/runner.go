// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"pydock/internal/container"
	"pydock/internal/issue"
	"pydock/pkg/buildfile"
	"pydock/pkg/types"
)

// Options configures a single container run on top of the buildfile's run
// spec. Ports are appended to the buildfile's mappings; Env entries override
// buildfile entries with the same key.
type Options struct {
	// Ports are extra mappings in "host:container[/protocol]" format.
	Ports []string

	// Env are extra environment variables for the container process.
	Env map[string]string

	// Name is the container name; defaults to the buildfile name.
	Name string

	// KeepContainer leaves the exited container around instead of removing it.
	KeepContainer bool

	// Stdin, Stdout and Stderr are attached to the container process.
	// They default to the calling process's streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result describes a finished container run.
type Result struct {
	// Image is the tag that was run.
	Image string

	// ExitCode is the entry-point process's exit code, propagated verbatim.
	ExitCode types.ExitCode
}

// Runner runs built images as foreground containers.
type Runner struct {
	engine container.Engine
}

// NewRunner creates a Runner on top of a container engine.
func NewRunner(engine container.Engine) *Runner {
	return &Runner{engine: engine}
}

// Run starts the image as the container's single foreground process and
// blocks until it exits. The entry point is whatever the image declares; it
// is never overridden here. A non-zero exit code from the process is not an
// error: it is reported in the Result so the caller can exit with the same
// code. Only failures to start the container at all return an error.
func (r *Runner) Run(ctx context.Context, tag string, bf *buildfile.Buildfile, opts Options) (*Result, error) {
	if bf == nil {
		return nil, fmt.Errorf("buildfile must not be nil")
	}

	runOpts := container.RunOptions{
		Image:  tag,
		Remove: !opts.KeepContainer,
		Name:   opts.Name,
		Ports:  append(append([]string{}, bf.Run.Ports...), opts.Ports...),
		Env:    mergeEnv(bf.Run.Env, opts.Env),
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}
	if runOpts.Name == "" {
		runOpts.Name = bf.Name
	}
	if runOpts.Stdin == nil {
		runOpts.Stdin = os.Stdin
	}
	if runOpts.Stdout == nil {
		runOpts.Stdout = os.Stdout
	}
	if runOpts.Stderr == nil {
		runOpts.Stderr = os.Stderr
	}

	log.Debug("starting container", "image", tag, "name", runOpts.Name, "engine", r.engine.Name())

	result, err := r.engine.Run(ctx, runOpts)
	if err != nil {
		return nil, startError(tag, err)
	}
	if result.Error != nil {
		return nil, startError(tag, result.Error)
	}

	log.Debug("container exited", "image", tag, "exit_code", result.ExitCode)

	return &Result{Image: tag, ExitCode: result.ExitCode}, nil
}

// mergeEnv overlays override entries onto base without mutating either map.
func mergeEnv(base, override map[string]string) map[string]string {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

// startError wraps an infrastructure failure with actionable context.
func startError(tag string, cause error) error {
	return issue.NewErrorContext().
		WithOperation("start container").
		WithResource(tag).
		WithSuggestion("Check that the container engine daemon is running").
		WithSuggestion("Make sure no running container already uses the same name or host ports").
		Wrap(cause).
		BuildError()
}
