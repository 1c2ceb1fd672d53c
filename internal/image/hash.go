// SPDX-License-Identifier: MPL-2.0

package image

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CalculateFileHash calculates the SHA256 hash of a file's contents.
func CalculateFileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// CalculateWorkspaceHash calculates a hash over the project tree that feeds
// the content-addressed image tag. It covers file names, sizes, and
// modification times rather than full contents so large workspaces stay cheap
// to fingerprint. Hidden version-control and cache directories are skipped:
// they never reach the image, since the broad COPY follows the same exclusions
// via .dockerignore conventions.
func CalculateWorkspaceHash(dirPath string) (string, error) {
	h := sha256.New()

	var entries []string
	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Intentionally skip inaccessible files to continue walking
		}
		if info.IsDir() {
			if skipDir(info.Name()) && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, _ := filepath.Rel(dirPath, path)
		entries = append(entries, fmt.Sprintf("%s:%d:%d", relPath, info.Size(), info.ModTime().Unix()))
		return nil
	})
	if err != nil {
		return "", err
	}

	// Sort for consistent ordering
	sort.Strings(entries)

	for _, entry := range entries {
		h.Write([]byte(entry))
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// skipDir reports whether a directory is excluded from workspace hashing.
func skipDir(name string) bool {
	switch name {
	case ".git", ".hg", "__pycache__", ".venv", "venv", ".mypy_cache", ".pytest_cache":
		return true
	}
	return strings.HasPrefix(name, ".") && name != "."
}
