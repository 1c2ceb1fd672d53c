// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("manifest not found")

	// ErrInvalidRequirement is the sentinel error wrapped by InvalidRequirementError.
	ErrInvalidRequirement = errors.New("invalid requirement")

	// nameRe matches a distribution name per PEP 508: alphanumeric with
	// interior dots, hyphens, and underscores.
	nameRe = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)

	// constraintOps are the version-specifier operators pip accepts.
	constraintOps = []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"}
)

type (
	// Requirement is one entry of the manifest: a package name with optional
	// extras, version constraint, and environment marker.
	Requirement struct {
		// Name is the distribution name as written (e.g. "Django").
		Name string

		// Extras are the optional extras (e.g. "standard" in "uvicorn[standard]").
		Extras []string

		// Constraint is the raw version specifier (e.g. "==2.31.0",
		// ">=4.2,<5.0"); empty means "any version".
		Constraint string

		// Marker is the raw environment marker after ';', if any.
		Marker string

		// Raw is the logical line as written, with continuations joined.
		Raw string
	}

	// Manifest is a parsed dependency manifest. Entry order is preserved:
	// pip installs in file order and the file bytes feed the build cache key.
	Manifest struct {
		// Path is where the manifest was read from.
		Path string

		// Requirements are the entries in file order.
		Requirements []Requirement

		// Data is the verbatim file content, used for content-addressed
		// image tagging.
		Data []byte
	}

	// NotFoundError is returned when the manifest file does not exist or
	// cannot be read.
	NotFoundError struct {
		Path string
		Err  error
	}

	// InvalidRequirementError is returned when a manifest line is not a
	// well-formed package specification.
	InvalidRequirementError struct {
		Path   string
		Line   int
		Value  string
		Reason string
	}
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrNotFound so callers can use errors.Is.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Error implements the error interface.
func (e *InvalidRequirementError) Error() string {
	return fmt.Sprintf("%s:%d: invalid requirement %q: %s", e.Path, e.Line, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidRequirement so callers can use errors.Is.
func (e *InvalidRequirementError) Unwrap() error { return ErrInvalidRequirement }

// Load reads and parses the manifest at path.
// A missing or unreadable file yields a NotFoundError: the build must stop
// before any container engine work when its input manifest is absent.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	return Parse(data, path)
}

// Parse parses manifest content from bytes. Comments and blank lines are
// skipped; a trailing backslash continues a specification on the next line.
func Parse(data []byte, path string) (*Manifest, error) {
	m := &Manifest{Path: path, Data: data}

	lines := strings.Split(string(data), "\n")
	for i := 0; i < len(lines); i++ {
		logical := strings.TrimSpace(lines[i])
		startLine := i + 1

		// Join continuation lines before any other processing, like pip does.
		for strings.HasSuffix(logical, "\\") && i+1 < len(lines) {
			i++
			logical = strings.TrimSuffix(logical, "\\") + " " + strings.TrimSpace(lines[i])
		}

		logical = stripComment(logical)
		if logical == "" {
			continue
		}

		req, err := parseRequirement(logical, path, startLine)
		if err != nil {
			return nil, err
		}
		m.Requirements = append(m.Requirements, req)
	}

	return m, nil
}

// Names returns the distribution names in file order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Requirements))
	for i, r := range m.Requirements {
		names[i] = r.Name
	}
	return names
}

// Len returns the number of requirements.
func (m *Manifest) Len() int { return len(m.Requirements) }

// String returns the requirement in canonical "name[extras]constraint; marker" form.
func (r Requirement) String() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if len(r.Extras) > 0 {
		sb.WriteString("[")
		sb.WriteString(strings.Join(r.Extras, ","))
		sb.WriteString("]")
	}
	sb.WriteString(r.Constraint)
	if r.Marker != "" {
		sb.WriteString("; ")
		sb.WriteString(r.Marker)
	}
	return sb.String()
}

// stripComment removes a '#' comment. Following pip, a comment starts the
// line or is preceded by whitespace; '#' inside a specifier is left alone.
func stripComment(line string) string {
	if strings.HasPrefix(line, "#") {
		return ""
	}
	for _, sep := range []string{" #", "\t#"} {
		if idx := strings.Index(line, sep); idx >= 0 {
			line = line[:idx]
		}
	}
	return strings.TrimSpace(line)
}

// parseRequirement splits one logical line into name, extras, constraint,
// and marker. Option lines (-r, -e, --index-url, ...) are rejected: the
// manifest is a pure ordered package list, nothing else.
func parseRequirement(line, path string, lineNo int) (Requirement, error) {
	req := Requirement{Raw: line}

	if strings.HasPrefix(line, "-") {
		return req, &InvalidRequirementError{
			Path: path, Line: lineNo, Value: line,
			Reason: "pip option lines are not supported; list packages only",
		}
	}

	// Split off the environment marker first.
	spec := line
	if idx := strings.Index(spec, ";"); idx >= 0 {
		req.Marker = strings.TrimSpace(spec[idx+1:])
		spec = strings.TrimSpace(spec[:idx])
		if req.Marker == "" {
			return req, &InvalidRequirementError{
				Path: path, Line: lineNo, Value: line,
				Reason: "empty environment marker after ';'",
			}
		}
	}

	// Then the version constraint.
	if idx := strings.IndexAny(spec, "=<>!~"); idx >= 0 {
		req.Constraint = strings.ReplaceAll(strings.TrimSpace(spec[idx:]), " ", "")
		spec = strings.TrimSpace(spec[:idx])
		if !validConstraint(req.Constraint) {
			return req, &InvalidRequirementError{
				Path: path, Line: lineNo, Value: line,
				Reason: fmt.Sprintf("malformed version constraint %q", req.Constraint),
			}
		}
	}

	// Then extras.
	if idx := strings.Index(spec, "["); idx >= 0 {
		if !strings.HasSuffix(spec, "]") {
			return req, &InvalidRequirementError{
				Path: path, Line: lineNo, Value: line,
				Reason: "unterminated extras bracket",
			}
		}
		for _, extra := range strings.Split(spec[idx+1:len(spec)-1], ",") {
			extra = strings.TrimSpace(extra)
			if extra == "" {
				return req, &InvalidRequirementError{
					Path: path, Line: lineNo, Value: line,
					Reason: "empty extra name",
				}
			}
			req.Extras = append(req.Extras, extra)
		}
		spec = spec[:idx]
	}

	req.Name = strings.TrimSpace(spec)
	if !nameRe.MatchString(req.Name) {
		return req, &InvalidRequirementError{
			Path: path, Line: lineNo, Value: line,
			Reason: fmt.Sprintf("invalid package name %q", req.Name),
		}
	}

	return req, nil
}

// validConstraint checks that every comma-separated clause starts with a
// known specifier operator followed by a version string.
func validConstraint(constraint string) bool {
	for _, clause := range strings.Split(constraint, ",") {
		if clause == "" {
			return false
		}
		matched := false
		for _, op := range constraintOps {
			if rest, ok := strings.CutPrefix(clause, op); ok {
				if rest == "" || strings.ContainsAny(rest, "=<>!~") {
					return false
				}
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}
