// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []Requirement
		wantErr string
	}{
		{
			name: "pinned package",
			data: "requests==2.31.0\n",
			want: []Requirement{
				{Name: "requests", Constraint: "==2.31.0", Raw: "requests==2.31.0"},
			},
		},
		{
			name: "unpinned package",
			data: "qrcode",
			want: []Requirement{
				{Name: "qrcode", Raw: "qrcode"},
			},
		},
		{
			name: "range constraint",
			data: "Django>=4.2,<5.0",
			want: []Requirement{
				{Name: "Django", Constraint: ">=4.2,<5.0", Raw: "Django>=4.2,<5.0"},
			},
		},
		{
			name: "extras and compatible release",
			data: "uvicorn[standard]~=0.27",
			want: []Requirement{
				{Name: "uvicorn", Extras: []string{"standard"}, Constraint: "~=0.27", Raw: "uvicorn[standard]~=0.27"},
			},
		},
		{
			name: "environment marker",
			data: `pytest; python_version >= "3.8"`,
			want: []Requirement{
				{Name: "pytest", Marker: `python_version >= "3.8"`, Raw: `pytest; python_version >= "3.8"`},
			},
		},
		{
			name: "comments and blank lines skipped",
			data: "# web\nrequests==2.31.0\n\nPillow  # imaging\n",
			want: []Requirement{
				{Name: "requests", Constraint: "==2.31.0", Raw: "requests==2.31.0"},
				{Name: "Pillow", Raw: "Pillow"},
			},
		},
		{
			name: "continuation lines joined",
			data: "Django>=4.2,\\\n    <5.0\n",
			want: []Requirement{
				{Name: "Django", Constraint: ">=4.2,<5.0", Raw: "Django>=4.2, <5.0"},
			},
		},
		{
			name: "order preserved",
			data: "b\na\nc\n",
			want: []Requirement{
				{Name: "b", Raw: "b"},
				{Name: "a", Raw: "a"},
				{Name: "c", Raw: "c"},
			},
		},
		{
			name:    "option line rejected",
			data:    "-r base.txt\n",
			wantErr: "option lines are not supported",
		},
		{
			name:    "invalid name rejected",
			data:    "not a package\n",
			wantErr: "invalid package name",
		},
		{
			name:    "dangling operator rejected",
			data:    "requests==\n",
			wantErr: "malformed version constraint",
		},
		{
			name:    "double operator rejected",
			data:    "requests==>2.0\n",
			wantErr: "malformed version constraint",
		},
		{
			name:    "unterminated extras rejected",
			data:    "uvicorn[standard\n",
			wantErr: "unterminated extras",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.data), "requirements.txt")
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Parse() succeeded, want error containing %q", tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidRequirement) {
					t.Errorf("error does not wrap ErrInvalidRequirement: %v", err)
				}
				var invErr *InvalidRequirementError
				if !errors.As(err, &invErr) {
					t.Fatalf("error is not *InvalidRequirementError: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(m.Requirements, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", m.Requirements, tt.want)
			}
		})
	}
}

func TestParse_ErrorCarriesLineNumber(t *testing.T) {
	_, err := Parse([]byte("requests==2.31.0\n\nnot a package\n"), "requirements.txt")
	var invErr *InvalidRequirementError
	if !errors.As(err, &invErr) {
		t.Fatalf("Parse() error = %v, want *InvalidRequirementError", err)
	}
	if invErr.Line != 3 {
		t.Errorf("Line = %d, want 3", invErr.Line)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	content := []byte("requests==2.31.0\nDjango>=4.2,<5.0\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := m.Names(); !reflect.DeepEqual(got, []string{"requests", "Django"}) {
		t.Errorf("Names() = %v", got)
	}
	if !reflect.DeepEqual(m.Data, content) {
		t.Error("Data does not match file content")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "requirements.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestRequirement_String(t *testing.T) {
	tests := []struct {
		name string
		req  Requirement
		want string
	}{
		{
			name: "bare name",
			req:  Requirement{Name: "qrcode"},
			want: "qrcode",
		},
		{
			name: "full specification",
			req: Requirement{
				Name:       "uvicorn",
				Extras:     []string{"standard"},
				Constraint: "~=0.27",
				Marker:     `sys_platform != "win32"`,
			},
			want: `uvicorn[standard]~=0.27; sys_platform != "win32"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
