// SPDX-License-Identifier: MPL-2.0

package image

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"pydock/internal/container"
	"pydock/internal/issue"
	"pydock/internal/manifest"
	"pydock/pkg/buildfile"
	"pydock/pkg/types"
)

// Options configures a Builder.
type Options struct {
	// ForceRebuild builds even when an image with the computed tag already
	// exists locally.
	ForceRebuild bool

	// NoCache disables the engine's layer cache for this build.
	NoCache bool

	// PullBase forces pulling a newer version of the pinned base image.
	PullBase bool

	// TagSuffix is appended to the content hash in the image tag. Tests use
	// it to keep their images apart from regular builds.
	TagSuffix string

	// Stdout and Stderr receive the engine's build output. Both default to
	// os.Stderr so build progress never mixes with command output on stdout.
	Stdout io.Writer
	Stderr io.Writer
}

// Result describes a completed (or cache-satisfied) build.
type Result struct {
	// Tag is the content-addressed image tag.
	Tag string

	// Cached reports whether the image already existed and the build was
	// skipped.
	Cached bool

	// Dockerfile is the generated build description.
	Dockerfile string

	// Manifest is the parsed dependency manifest the image was built from.
	Manifest *manifest.Manifest
}

// Builder builds content-addressed images from a project directory and its
// buildfile. The image tag is derived from a hash of the base image, the
// generated Dockerfile, the manifest bytes, and a workspace fingerprint, so
// unchanged inputs resolve to an existing image without invoking the engine's
// build at all.
type Builder struct {
	engine container.Engine
	opts   Options
}

// NewBuilder creates a Builder on top of a container engine.
func NewBuilder(engine container.Engine, opts Options) *Builder {
	if opts.Stdout == nil {
		opts.Stdout = os.Stderr
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Builder{engine: engine, opts: opts}
}

// Build runs the full pipeline for a project: derive the BuildSpec, load and
// parse the manifest, generate the Dockerfile, compute the tag, and build the
// image unless it is already present.
//
// The manifest is read before the engine is ever invoked: a missing or
// malformed manifest fails the build without touching the container engine,
// and in particular before any workspace copy could happen.
func (b *Builder) Build(ctx context.Context, projectRoot string, bf *buildfile.Buildfile) (*Result, error) {
	if err := types.FilesystemPath(projectRoot).Validate(); err != nil {
		return nil, err
	}

	spec, err := NewBuildSpec(bf)
	if err != nil {
		return nil, err
	}

	m, err := b.loadManifest(projectRoot, spec)
	if err != nil {
		return nil, err
	}

	dockerfile := GenerateDockerfile(spec)

	tag, err := b.computeTag(projectRoot, spec, m, dockerfile)
	if err != nil {
		return nil, fmt.Errorf("failed to compute image tag: %w", err)
	}

	result := &Result{Tag: tag, Dockerfile: dockerfile, Manifest: m}

	if !b.opts.ForceRebuild {
		exists, _ := b.engine.ImageExists(ctx, tag) //nolint:errcheck // Error treated as "not found"
		if exists {
			log.Debug("image cache hit, skipping build", "tag", tag)
			result.Cached = true
			return result, nil
		}
	}

	log.Debug("building image", "tag", tag, "base", spec.BaseImage, "engine", b.engine.Name())

	if err := b.buildImage(ctx, projectRoot, dockerfile, tag); err != nil {
		return nil, err
	}

	return result, nil
}

// Tag returns the tag a build of this project would produce, without building.
func (b *Builder) Tag(projectRoot string, bf *buildfile.Buildfile) (string, error) {
	if err := types.FilesystemPath(projectRoot).Validate(); err != nil {
		return "", err
	}

	spec, err := NewBuildSpec(bf)
	if err != nil {
		return "", err
	}
	m, err := b.loadManifest(projectRoot, spec)
	if err != nil {
		return "", err
	}
	return b.computeTag(projectRoot, spec, m, GenerateDockerfile(spec))
}

// IsBuilt reports whether the image for the project's current contents
// already exists locally.
func (b *Builder) IsBuilt(ctx context.Context, projectRoot string, bf *buildfile.Buildfile) (bool, error) {
	tag, err := b.Tag(projectRoot, bf)
	if err != nil {
		return false, err
	}
	return b.engine.ImageExists(ctx, tag)
}

// loadManifest reads and parses the dependency manifest, wrapping failures
// with actionable context.
func (b *Builder) loadManifest(projectRoot string, spec *BuildSpec) (*manifest.Manifest, error) {
	manifestPath := filepath.Join(projectRoot, filepath.FromSlash(spec.Manifest))

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load dependency manifest").
			WithResource(manifestPath).
			WithSuggestion("Create the manifest, or point image.manifest in " + buildfile.DefaultFileName + " at the right file").
			WithSuggestion("Each manifest line must be a package name with an optional version constraint (e.g. requests==2.31.0)").
			Wrap(err).
			BuildError()
	}

	return m, nil
}

// computeTag derives the content-addressed tag "<name>:<hash12>[-suffix]".
func (b *Builder) computeTag(projectRoot string, spec *BuildSpec, m *manifest.Manifest, dockerfile string) (string, error) {
	h := sha256.New()

	h.Write([]byte("base:" + spec.BaseImage))
	h.Write([]byte("dockerfile:" + dockerfile))
	h.Write([]byte("manifest:"))
	h.Write(m.Data)

	workspaceHash, err := CalculateWorkspaceHash(projectRoot)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint workspace: %w", err)
	}
	h.Write([]byte("workspace:" + workspaceHash))

	hash := hex.EncodeToString(h.Sum(nil))[:12]
	if b.opts.TagSuffix != "" {
		return fmt.Sprintf("%s:%s-%s", spec.Name, hash, b.opts.TagSuffix), nil
	}
	return fmt.Sprintf("%s:%s", spec.Name, hash), nil
}

// buildImage stages the generated Dockerfile in a temporary directory and
// builds with the project root as context. Staging outside the project keeps
// the workspace untouched and the Dockerfile itself out of the broad COPY.
func (b *Builder) buildImage(ctx context.Context, projectRoot, dockerfile, tag string) error {
	stageDir, err := os.MkdirTemp("", "pydock-build-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stageDir) }() // Best-effort temp cleanup

	dockerfilePath := filepath.Join(stageDir, "Dockerfile")
	if err := os.WriteFile(dockerfilePath, []byte(dockerfile), 0o644); err != nil {
		return fmt.Errorf("failed to stage Dockerfile: %w", err)
	}

	return b.engine.Build(ctx, container.BuildOptions{
		ContextDir: projectRoot,
		Dockerfile: dockerfilePath,
		Tag:        tag,
		NoCache:    b.opts.NoCache,
		Pull:       b.opts.PullBase,
		Stdout:     b.opts.Stdout,
		Stderr:     b.opts.Stderr,
	})
}
