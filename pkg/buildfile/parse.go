// SPDX-License-Identifier: MPL-2.0

package buildfile

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"pydock/pkg/cueutil"
)

//go:embed buildfile_schema.cue
var buildfileSchema string

// Parse reads and parses a buildfile from the given path.
func Parse(path string) (*Buildfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read buildfile at %s: %w", path, err)
	}

	return ParseBytes(data, path)
}

// ParseBytes parses buildfile content from bytes.
// Uses cueutil.ParseAndDecodeString for the three-step CUE parsing flow:
// compile schema → compile user data → validate and decode.
func ParseBytes(data []byte, path string) (*Buildfile, error) {
	result, err := cueutil.ParseAndDecodeString[Buildfile](
		buildfileSchema,
		data,
		"#Buildfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}

	bf := result.Value
	bf.FilePath = path

	if bf.Name == "" {
		bf.Name = sanitizeName(filepath.Base(filepath.Dir(absOrSelf(path))))
	}

	if err := bf.validate(); err != nil {
		return nil, err
	}

	return bf, nil
}

// Discover walks upwards from startDir looking for a pydock.cue file.
// Returns the file path, or ErrNotFound when no parent directory has one.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load resolves the buildfile for a project directory: the discovered
// pydock.cue when one exists, the built-in defaults otherwise. The returned
// root is the directory the build context is anchored to (the buildfile's
// directory, or projectDir for defaults).
func Load(projectDir string) (bf *Buildfile, root string, err error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve %s: %w", projectDir, err)
	}

	path, err := Discover(abs)
	if err != nil {
		// No buildfile is not an error: defaults describe the common case.
		return Default(filepath.Base(abs)), abs, nil
	}

	bf, err = Parse(path)
	if err != nil {
		return nil, "", err
	}
	return bf, filepath.Dir(path), nil
}

func absOrSelf(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
