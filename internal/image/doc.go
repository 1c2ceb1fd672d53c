// SPDX-License-Identifier: MPL-2.0

// Package image turns a parsed buildfile and its dependency manifest into a
// built, content-addressed container image.
//
// The build pipeline is strictly sequential: select the pinned base image,
// copy the manifest, install dependencies, copy the remaining workspace,
// declare the entry point. The manifest copy always precedes the workspace
// copy so the dependency-install layer survives application-only edits.
// Images are tagged with a hash of everything that determines their contents,
// and a build whose tag already exists locally is skipped entirely.
package image
