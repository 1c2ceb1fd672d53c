// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{name: "absolute path", path: "/srv/app"},
		{name: "relative path", path: "projects/app"},
		{name: "dot", path: "."},
		{name: "empty", path: "", wantErr: true},
		{name: "whitespace only", path: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.path.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("Validate(%q) error = %v, want ErrInvalidFilesystemPath chain", tt.path, err)
			}
		})
	}
}

func TestFilesystemPath_String(t *testing.T) {
	if got := FilesystemPath("/srv/app").String(); got != "/srv/app" {
		t.Errorf("String() = %q", got)
	}
}
