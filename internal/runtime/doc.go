// SPDX-License-Identifier: MPL-2.0

// Package runtime starts built images as single foreground containers and
// propagates the entry-point process's exit code to the caller. Process
// supervision (restarts, health checks) stays with the container host; this
// package only wires stdio, ports, and environment, then waits.
package runtime
