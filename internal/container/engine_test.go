// SPDX-License-Identifier: MPL-2.0

package container

import (
	"strings"
	"testing"
)

// Compile-time interface compliance.
var (
	_ Engine = (*DockerEngine)(nil)
	_ Engine = (*PodmanEngine)(nil)
)

func TestEngineNames(t *testing.T) {
	if got := NewDockerEngine().Name(); got != "docker" {
		t.Errorf("DockerEngine.Name() = %q, want %q", got, "docker")
	}
	if got := NewPodmanEngine().Name(); got != "podman" {
		t.Errorf("PodmanEngine.Name() = %q, want %q", got, "podman")
	}
}

func TestNewEngine_UnknownType(t *testing.T) {
	_, err := NewEngine(EngineType("containerd"))
	if err == nil {
		t.Fatal("NewEngine() with unknown type succeeded, want error")
	}
	if !strings.Contains(err.Error(), "containerd") {
		t.Errorf("error %q does not name the unknown engine type", err.Error())
	}
}

func TestErrEngineNotAvailable_Message(t *testing.T) {
	err := &ErrEngineNotAvailable{Engine: "docker", Reason: "not installed"}
	want := "container engine 'docker' is not available: not installed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
