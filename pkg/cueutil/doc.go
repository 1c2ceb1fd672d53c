// SPDX-License-Identifier: MPL-2.0

// Package cueutil implements the shared CUE parsing flow used for every
// CUE surface in pydock (the per-project buildfile and the tool config):
// compile the embedded schema, compile the user data, unify, validate,
// and decode into a Go struct.
//
// Errors are reported with JSON-path prefixes (e.g. "image.ports[0]")
// so users can locate the offending field without reading CUE output.
package cueutil
