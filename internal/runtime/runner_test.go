// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"testing"

	"pydock/internal/container"
	"pydock/pkg/buildfile"
	"pydock/pkg/types"
)

// fakeEngine records the RunOptions it receives and returns a canned result.
type fakeEngine struct {
	runCalls []container.RunOptions
	exitCode types.ExitCode
	runErr   error
	infraErr error
}

func (f *fakeEngine) Name() string                                         { return "fake" }
func (f *fakeEngine) Available() bool                                      { return true }
func (f *fakeEngine) Version(context.Context) (string, error)              { return "0.0.0", nil }
func (f *fakeEngine) Build(context.Context, container.BuildOptions) error  { return nil }
func (f *fakeEngine) Pull(context.Context, string) error                   { return nil }
func (f *fakeEngine) ImageExists(context.Context, string) (bool, error)    { return true, nil }
func (f *fakeEngine) RemoveImage(context.Context, string, bool) error      { return nil }
func (f *fakeEngine) InspectImage(context.Context, string) (string, error) { return "", nil }

func (f *fakeEngine) Run(_ context.Context, opts container.RunOptions) (*container.RunResult, error) {
	f.runCalls = append(f.runCalls, opts)
	if f.runErr != nil {
		return nil, f.runErr
	}
	return &container.RunResult{ExitCode: f.exitCode, Error: f.infraErr}, nil
}

func testBuildfile() *buildfile.Buildfile {
	bf := buildfile.Default("gallery")
	bf.Run.Ports = []string{"8000:8000"}
	bf.Run.Env = map[string]string{"MODE": "prod", "REGION": "eu"}
	return bf
}

func TestRunner_Run_ExitCodePropagation(t *testing.T) {
	tests := []struct {
		name string
		code types.ExitCode
	}{
		{name: "success", code: 0},
		{name: "application failure", code: 3},
		{name: "missing entry point", code: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &fakeEngine{exitCode: tt.code}
			runner := NewRunner(engine)

			result, err := runner.Run(context.Background(), "gallery:abc123", testBuildfile(), Options{})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.ExitCode != tt.code {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.code)
			}
		})
	}
}

func TestRunner_Run_MergesBuildfileAndOverrides(t *testing.T) {
	engine := &fakeEngine{}
	runner := NewRunner(engine)

	_, err := runner.Run(context.Background(), "gallery:abc123", testBuildfile(), Options{
		Ports: []string{"9090:9090"},
		Env:   map[string]string{"MODE": "debug", "EXTRA": "1"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(engine.runCalls) != 1 {
		t.Fatalf("engine.Run called %d times, want 1", len(engine.runCalls))
	}
	opts := engine.runCalls[0]

	wantPorts := []string{"8000:8000", "9090:9090"}
	if len(opts.Ports) != len(wantPorts) {
		t.Fatalf("Ports = %v, want %v", opts.Ports, wantPorts)
	}
	for i := range wantPorts {
		if opts.Ports[i] != wantPorts[i] {
			t.Errorf("Ports[%d] = %q, want %q", i, opts.Ports[i], wantPorts[i])
		}
	}

	if opts.Env["MODE"] != "debug" {
		t.Errorf("Env[MODE] = %q, override should win", opts.Env["MODE"])
	}
	if opts.Env["REGION"] != "eu" || opts.Env["EXTRA"] != "1" {
		t.Errorf("Env = %v, buildfile and override entries should both survive", opts.Env)
	}
}

func TestRunner_Run_Defaults(t *testing.T) {
	engine := &fakeEngine{}
	runner := NewRunner(engine)

	_, err := runner.Run(context.Background(), "gallery:abc123", testBuildfile(), Options{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	opts := engine.runCalls[0]
	if !opts.Remove {
		t.Error("container not removed after exit by default")
	}
	if opts.Name != "gallery" {
		t.Errorf("Name = %q, want buildfile name %q", opts.Name, "gallery")
	}
}

func TestRunner_Run_KeepContainer(t *testing.T) {
	engine := &fakeEngine{}
	runner := NewRunner(engine)

	_, err := runner.Run(context.Background(), "gallery:abc123", testBuildfile(), Options{KeepContainer: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if engine.runCalls[0].Remove {
		t.Error("KeepContainer did not disable container removal")
	}
}

func TestRunner_Run_InfrastructureFailure(t *testing.T) {
	sentinel := errors.New("daemon unreachable")
	engine := &fakeEngine{infraErr: sentinel}
	runner := NewRunner(engine)

	_, err := runner.Run(context.Background(), "gallery:abc123", testBuildfile(), Options{})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Run() error = %v, want wrapped %v", err, sentinel)
	}
}

func TestMergeEnv(t *testing.T) {
	base := map[string]string{"A": "1", "B": "2"}
	override := map[string]string{"B": "3", "C": "4"}

	merged := mergeEnv(base, override)

	if merged["A"] != "1" || merged["B"] != "3" || merged["C"] != "4" {
		t.Errorf("mergeEnv() = %v", merged)
	}
	if base["B"] != "2" {
		t.Error("mergeEnv() mutated the base map")
	}
	if mergeEnv(nil, nil) != nil {
		t.Error("mergeEnv(nil, nil) should stay nil")
	}
}
