// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pydock/internal/config"
	"pydock/internal/issue"
	"pydock/internal/manifest"
	"pydock/pkg/buildfile"
)

func TestParseEnvFlags(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", pairs: nil, want: nil},
		{
			name:  "simple pairs",
			pairs: []string{"A=1", "B=two words"},
			want:  map[string]string{"A": "1", "B": "two words"},
		},
		{
			name:  "value containing equals",
			pairs: []string{"DSN=postgres://u:p@h/db?sslmode=disable"},
			want:  map[string]string{"DSN": "postgres://u:p@h/db?sslmode=disable"},
		},
		{name: "missing value separator", pairs: []string{"JUSTAKEY"}, wantErr: true},
		{name: "empty key", pairs: []string{"=value"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseEnvFlags(tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseEnvFlags(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseEnvFlags(%v) = %v, want %v", tt.pairs, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseEnvFlags(%v)[%s] = %q, want %q", tt.pairs, k, got[k], v)
				}
			}
		})
	}
}

// Every init template must parse back through the schema it targets.
func TestGenerateBuildfile_TemplatesAreValid(t *testing.T) {
	for _, template := range []string{"default", "minimal", "full"} {
		t.Run(template, func(t *testing.T) {
			content, err := generateBuildfile(template)
			if err != nil {
				t.Fatalf("generateBuildfile(%q) error = %v", template, err)
			}

			if _, err := buildfile.ParseBytes([]byte(content), "pydock.cue"); err != nil {
				t.Errorf("template %q does not parse: %v", template, err)
			}
		})
	}
}

func TestGenerateBuildfile_UnknownTemplate(t *testing.T) {
	if _, err := generateBuildfile("fancy"); err == nil {
		t.Fatal("generateBuildfile() accepted an unknown template")
	}
}

func TestBuildIssueID(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{
			name: "missing manifest",
			err:  fmt.Errorf("load manifest: %w", manifest.ErrNotFound),
			want: issue.ManifestNotFoundId,
		},
		{
			name: "malformed manifest line",
			err:  fmt.Errorf("load manifest: %w", manifest.ErrInvalidRequirement),
			want: issue.ManifestParseErrorId,
		},
		{
			name: "engine-side failure",
			err:  errors.New("docker build: exit status 1"),
			want: issue.ImageBuildFailedId,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildIssueID(tt.err)
			if got != tt.want {
				t.Errorf("buildIssueID(%v) = %d, want %d", tt.err, got, tt.want)
			}
			if issue.Get(got) == nil {
				t.Errorf("buildIssueID(%v) = %d, not in the catalog", tt.err, got)
			}
		})
	}
}

func TestLoadProjectBuildfile(t *testing.T) {
	t.Run("malformed buildfile is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, buildfile.DefaultFileName)
		if err := os.WriteFile(path, []byte(`name: 42`), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, _, err := loadProjectBuildfile(dir); err == nil {
			t.Fatal("loadProjectBuildfile() accepted a malformed buildfile")
		}
	})

	t.Run("missing buildfile falls back to defaults", func(t *testing.T) {
		dir := t.TempDir()

		bf, root, err := loadProjectBuildfile(dir)
		if err != nil {
			t.Fatalf("loadProjectBuildfile() error = %v", err)
		}
		if bf.FilePath != "" {
			t.Errorf("FilePath = %q, want empty for defaults", bf.FilePath)
		}
		if root != dir {
			t.Errorf("root = %q, want %q", root, dir)
		}
	})
}

func TestPrintConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	var fromFile strings.Builder
	printConfig(&fromFile, cfg, "/home/u/.config/pydock/config.cue")
	if !strings.Contains(fromFile.String(), "source: /home/u/.config/pydock/config.cue") {
		t.Errorf("printConfig() output missing source path:\n%s", fromFile.String())
	}
	if !strings.Contains(fromFile.String(), "container_engine: auto") {
		t.Errorf("printConfig() output missing engine field:\n%s", fromFile.String())
	}

	var defaults strings.Builder
	printConfig(&defaults, cfg, "")
	if !strings.Contains(defaults.String(), "(defaults, no config file)") {
		t.Errorf("printConfig() with no source should say defaults are in effect:\n%s", defaults.String())
	}
}

func TestGetVersionString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.2.3"
	if got := getVersionString(); !strings.HasPrefix(got, "1.2.3") {
		t.Errorf("getVersionString() = %q, want prefix 1.2.3", got)
	}
}
