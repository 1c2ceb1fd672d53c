// SPDX-License-Identifier: MPL-2.0

// Package buildfile defines the pydock.cue build description: the declarative
// input that pins the interpreter version, names the dependency manifest and
// entry-point script, and fixes the working directory of the built image.
package buildfile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultFileName is the build description filename discovered in a project.
const DefaultFileName = "pydock.cue"

// Defaults applied when a project carries no buildfile at all.
const (
	DefaultPythonVersion = PythonVersion("3.12")
	DefaultManifest      = "requirements.txt"
	DefaultEntrypoint    = "main.py"
	DefaultWorkdir       = "/app"
)

var (
	// ErrInvalidPythonVersion is the sentinel error wrapped by InvalidPythonVersionError.
	ErrInvalidPythonVersion = errors.New("invalid python version")

	// ErrInvalidImageName is the sentinel error wrapped by InvalidImageNameError.
	ErrInvalidImageName = errors.New("invalid image name")

	// ErrNotFound is returned by Discover when no buildfile exists in the
	// start directory or any of its parents.
	ErrNotFound = errors.New("no pydock.cue found")

	pythonVersionRe = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)
	imageNameRe     = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)
)

type (
	// PythonVersion is an interpreter version in "major.minor" form (e.g. "3.12").
	// It selects the pinned base image and nothing else; patch-level pinning is
	// delegated to the image registry's tag resolution.
	PythonVersion string

	// InvalidPythonVersionError is returned when a PythonVersion is not in
	// "major.minor" form.
	InvalidPythonVersionError struct {
		Value PythonVersion
	}

	// InvalidImageNameError is returned when a buildfile name cannot be used
	// as an image repository name.
	InvalidImageNameError struct {
		Value string
	}

	// Buildfile is a parsed pydock.cue build description.
	Buildfile struct {
		// Name is the image repository name; defaults to the project
		// directory name when empty.
		Name string `json:"name,omitempty"`

		// Image describes the image to build.
		Image ImageSpec `json:"image"`

		// Run describes how `pydock run` starts the built image.
		Run RunSpec `json:"run,omitempty"`

		// FilePath is where this buildfile was loaded from; empty for the
		// built-in defaults.
		FilePath string `json:"-"`
	}

	// ImageSpec pins everything that determines the image contents.
	ImageSpec struct {
		// Python selects the base image python:<version>-slim.
		Python PythonVersion `json:"python"`

		// Manifest is the dependency manifest path, relative to the project root.
		Manifest string `json:"manifest"`

		// Entrypoint is the script started as the container's single
		// foreground process, relative to the working directory.
		Entrypoint string `json:"entrypoint"`

		// Workdir is the fixed working directory inside the image.
		Workdir string `json:"workdir"`

		// Env are environment variables baked into the image.
		Env map[string]string `json:"env,omitempty"`
	}

	// RunSpec is the run-time surface: how the single container instance is
	// started. Process supervision stays with the container host.
	RunSpec struct {
		// Ports are mappings in "host:container[/protocol]" format.
		Ports []string `json:"ports,omitempty"`

		// Env are environment variables for the running container.
		Env map[string]string `json:"env,omitempty"`
	}
)

// String returns the string representation of the PythonVersion.
func (v PythonVersion) String() string { return string(v) }

// Validate returns an error if the PythonVersion is not in "major.minor" form.
func (v PythonVersion) Validate() error {
	if !pythonVersionRe.MatchString(string(v)) {
		return &InvalidPythonVersionError{Value: v}
	}
	return nil
}

// BaseImage returns the pinned base image reference for this version.
func (v PythonVersion) BaseImage() string {
	return fmt.Sprintf("python:%s-slim", v)
}

// Error implements the error interface.
func (e *InvalidPythonVersionError) Error() string {
	return fmt.Sprintf("invalid python version %q (expected major.minor, e.g. \"3.12\")", e.Value)
}

// Unwrap returns ErrInvalidPythonVersion so callers can use errors.Is.
func (e *InvalidPythonVersionError) Unwrap() error { return ErrInvalidPythonVersion }

// Error implements the error interface.
func (e *InvalidImageNameError) Error() string {
	return fmt.Sprintf("invalid image name %q (lowercase letters, digits, '.', '_' and '-' only)", e.Value)
}

// Unwrap returns ErrInvalidImageName so callers can use errors.Is.
func (e *InvalidImageNameError) Unwrap() error { return ErrInvalidImageName }

// Default returns the buildfile used when a project has no pydock.cue:
// Python 3.12, requirements.txt, main.py, /app.
func Default(name string) *Buildfile {
	return &Buildfile{
		Name: sanitizeName(name),
		Image: ImageSpec{
			Python:     DefaultPythonVersion,
			Manifest:   DefaultManifest,
			Entrypoint: DefaultEntrypoint,
			Workdir:    DefaultWorkdir,
		},
	}
}

// validate checks the constraints the CUE schema cannot express and the ones
// that must also hold for programmatically constructed buildfiles.
func (b *Buildfile) validate() error {
	if b.Name != "" && !imageNameRe.MatchString(b.Name) {
		return &InvalidImageNameError{Value: b.Name}
	}
	if err := b.Image.Python.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Image.Manifest) == "" {
		return fmt.Errorf("image.manifest must not be empty")
	}
	if strings.TrimSpace(b.Image.Entrypoint) == "" {
		return fmt.Errorf("image.entrypoint must not be empty")
	}
	if !strings.HasPrefix(b.Image.Workdir, "/") {
		return fmt.Errorf("image.workdir %q must be an absolute path", b.Image.Workdir)
	}
	return nil
}

// sanitizeName lowercases a directory name and strips characters that are not
// valid in an image repository name.
func sanitizeName(name string) string {
	name = strings.ToLower(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('-')
		}
	}
	out := strings.Trim(sb.String(), ".-_")
	if out == "" {
		out = "app"
	}
	return out
}
