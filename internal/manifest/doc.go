// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the dependency manifest (requirements.txt): an
// ordered list of package specifications consumed once at build time.
//
// The parser validates only what pydock itself needs — that the file exists
// and that every logical line is a well-formed package specification. Actual
// dependency resolution is pip's job inside the image build; a constraint
// the package index cannot satisfy fails the engine build, not the parse.
package manifest
