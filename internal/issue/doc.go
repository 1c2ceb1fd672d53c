// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// Two layers live here: ActionableError, a structured error carrying the failed
// operation, the resource involved and remediation suggestions; and the issue
// catalog, Markdown help texts rendered with glamour for the failure classes a
// pydock user is most likely to hit (no container engine, missing manifest,
// failed image build, and so on).
package issue
