// SPDX-License-Identifier: MPL-2.0

package image

import (
	"fmt"
	"path"
	"sort"

	"pydock/internal/container"
	"pydock/pkg/buildfile"
)

// BuildSpec is the flattened, validated input to Dockerfile generation and
// image tagging. It carries everything that determines the image contents and
// nothing else.
type BuildSpec struct {
	// Name is the image repository name.
	Name string

	// BaseImage is the pinned interpreter base image (e.g. "python:3.12-slim").
	BaseImage string

	// Manifest is the dependency manifest path relative to the project root,
	// in slash form.
	Manifest string

	// Entrypoint is the script started as the container's single foreground
	// process, relative to Workdir.
	Entrypoint string

	// Workdir is the fixed absolute working directory inside the image.
	Workdir string

	// Env are environment variables baked into the image.
	Env map[string]string

	// Expose are the container ports declared in the buildfile's run spec.
	Expose []container.NetworkPort
}

// NewBuildSpec derives a BuildSpec from a parsed buildfile.
func NewBuildSpec(bf *buildfile.Buildfile) (*BuildSpec, error) {
	if bf == nil {
		return nil, fmt.Errorf("buildfile must not be nil")
	}

	spec := &BuildSpec{
		Name:       bf.Name,
		BaseImage:  bf.Image.Python.BaseImage(),
		Manifest:   path.Clean(bf.Image.Manifest),
		Entrypoint: bf.Image.Entrypoint,
		Workdir:    bf.Image.Workdir,
		Env:        bf.Image.Env,
	}

	seen := make(map[container.NetworkPort]bool)
	for _, p := range bf.Run.Ports {
		mapping, err := container.ParsePortMapping(p)
		if err != nil {
			return nil, fmt.Errorf("invalid port mapping in run spec: %w", err)
		}
		if !seen[mapping.ContainerPort] {
			seen[mapping.ContainerPort] = true
			spec.Expose = append(spec.Expose, mapping.ContainerPort)
		}
	}
	sort.Slice(spec.Expose, func(i, j int) bool { return spec.Expose[i] < spec.Expose[j] })

	return spec, nil
}
