// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Box: {
	name:   string
	size?:  int & >0
	labels?: [...string]
}
`

type box struct {
	Name   string   `json:"name"`
	Size   int      `json:"size,omitempty"`
	Labels []string `json:"labels,omitempty"`
}

func TestParseAndDecodeString(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantErr string
		check   func(t *testing.T, b *box)
	}{
		{
			name: "minimal valid input",
			data: `name: "deps"`,
			check: func(t *testing.T, b *box) {
				if b.Name != "deps" {
					t.Errorf("Name = %q, want %q", b.Name, "deps")
				}
			},
		},
		{
			name: "full valid input",
			data: `name: "deps", size: 3, labels: ["a", "b"]`,
			check: func(t *testing.T, b *box) {
				if b.Size != 3 || len(b.Labels) != 2 {
					t.Errorf("decoded = %+v, want size 3 and 2 labels", b)
				}
			},
		},
		{
			name:    "wrong type reports json path",
			data:    `name: 42`,
			wantErr: "name",
		},
		{
			name:    "constraint violation",
			data:    `name: "deps", size: 0`,
			wantErr: "size",
		},
		{
			name:    "syntax error carries filename",
			data:    `name: "deps`,
			wantErr: "box.cue",
		},
		{
			name:    "oversized input rejected",
			data:    `name: "` + strings.Repeat("x", 64) + `"`,
			opts:    []Option{WithMaxFileSize(16)},
			wantErr: "exceeds maximum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append([]Option{WithFilename("box.cue")}, tt.opts...)
			result, err := ParseAndDecodeString[box](testSchema, []byte(tt.data), "#Box", opts...)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("ParseAndDecodeString() succeeded, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAndDecodeString() error = %v", err)
			}
			tt.check(t, result.Value)
		})
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "single field", path: []string{"name"}, want: "name"},
		{name: "nested field", path: []string{"image", "python"}, want: "image.python"},
		{name: "array index", path: []string{"ports", "0"}, want: "ports[0]"},
		{name: "index then field", path: []string{"ports", "1", "host"}, want: "ports[1].host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
