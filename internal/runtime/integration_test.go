// SPDX-License-Identifier: MPL-2.0

// Integration tests that build and run real images. They require Docker or
// Podman and are skipped in short mode or when no engine is available.
package runtime

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"

	"pydock/internal/container"
	"pydock/internal/image"
	"pydock/pkg/buildfile"
)

// checkTestcontainersAvailable safely checks if testcontainers can be used.
// Returns true if containers are available, false otherwise.
func checkTestcontainersAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		return false
	}
	defer provider.Close()
	return true
}

func TestBuildAndRun_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	engine, err := container.AutoDetectEngine()
	if err != nil {
		t.Skipf("skipping integration tests: no container engine available: %v", err)
	}
	if !engine.Available() {
		t.Skip("skipping integration tests: container engine not available")
	}
	if !checkTestcontainersAvailable() {
		t.Skip("skipping integration tests: testcontainers provider not available")
	}

	t.Run("ExitCodePropagation", func(t *testing.T) { testExitCodePropagation(t, engine) })
	t.Run("StdoutPassthrough", func(t *testing.T) { testStdoutPassthrough(t, engine) })
	t.Run("CacheHitOnRebuild", func(t *testing.T) { testCacheHitOnRebuild(t, engine) })
}

// writeIntegrationProject creates a project whose entry point prints a marker
// and exits with the given code.
func writeIntegrationProject(t *testing.T, exitCode int) (string, *buildfile.Buildfile) {
	t.Helper()
	dir := t.TempDir()

	script := "import sys\nprint('pydock-integration')\nsys.exit(" + strconv.Itoa(exitCode) + ")\n"
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "requirements.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	bf := buildfile.Default("pydock-it")
	return dir, bf
}

func buildIntegrationImage(t *testing.T, engine container.Engine, dir string, bf *buildfile.Buildfile) string {
	t.Helper()

	builder := image.NewBuilder(engine, image.Options{TagSuffix: "it"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := builder.Build(ctx, dir, bf)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	t.Cleanup(func() {
		_ = engine.RemoveImage(context.Background(), result.Tag, true)
	})
	return result.Tag
}

func testExitCodePropagation(t *testing.T, engine container.Engine) {
	dir, bf := writeIntegrationProject(t, 3)
	tag := buildIntegrationImage(t, engine, dir, bf)

	var stdout, stderr bytes.Buffer
	runner := NewRunner(engine)
	result, err := runner.Run(context.Background(), tag, bf, Options{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, stderr: %s", err, stderr.String())
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
}

func testStdoutPassthrough(t *testing.T, engine container.Engine) {
	dir, bf := writeIntegrationProject(t, 0)
	tag := buildIntegrationImage(t, engine, dir, bf)

	var stdout, stderr bytes.Buffer
	runner := NewRunner(engine)
	result, err := runner.Run(context.Background(), tag, bf, Options{
		Stdin:  strings.NewReader(""),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v, stderr: %s", err, stderr.String())
	}
	if result.ExitCode != 0 {
		t.Fatalf("ExitCode = %d, want 0, stderr: %s", result.ExitCode, stderr.String())
	}
	if got := strings.TrimSpace(stdout.String()); got != "pydock-integration" {
		t.Errorf("stdout = %q, want %q", got, "pydock-integration")
	}
}

func testCacheHitOnRebuild(t *testing.T, engine container.Engine) {
	dir, bf := writeIntegrationProject(t, 0)
	_ = buildIntegrationImage(t, engine, dir, bf)

	builder := image.NewBuilder(engine, image.Options{TagSuffix: "it"})
	result, err := builder.Build(context.Background(), dir, bf)
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if !result.Cached {
		t.Error("second build of unchanged project was not served from cache")
	}
}
