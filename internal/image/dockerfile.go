// SPDX-License-Identifier: MPL-2.0

package image

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateDockerfile renders the build description for a BuildSpec.
//
// The output is deterministic: the same spec always yields byte-identical
// content, so the Dockerfile can feed the content-addressed image tag and the
// engine's own layer cache. The manifest is copied and installed before the
// rest of the workspace; that ordering is what keeps the dependency-install
// layer cacheable across application-only changes and must not be reordered.
func GenerateDockerfile(spec *BuildSpec) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "FROM %s\n\n", spec.BaseImage)

	fmt.Fprintf(&sb, "WORKDIR %s\n\n", spec.Workdir)

	// Narrow copy: manifest only, so dependency installation is cached
	// independently of application source changes.
	fmt.Fprintf(&sb, "COPY %s %s\n\n", spec.Manifest, spec.Manifest)

	sb.WriteString("RUN pip install --no-cache-dir --upgrade pip\n")
	fmt.Fprintf(&sb, "RUN pip install --no-cache-dir -r %s\n\n", spec.Manifest)

	// Broad copy: the remaining project tree.
	sb.WriteString("COPY . .\n\n")

	for _, k := range sortedEnvKeys(spec.Env) {
		fmt.Fprintf(&sb, "ENV %s=%q\n", k, spec.Env[k])
	}
	if len(spec.Env) > 0 {
		sb.WriteString("\n")
	}

	for _, port := range spec.Expose {
		fmt.Fprintf(&sb, "EXPOSE %d\n", port)
	}
	if len(spec.Expose) > 0 {
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "CMD [\"python\", %q]\n", spec.Entrypoint)

	return sb.String()
}

// sortedEnvKeys returns env keys in lexical order for deterministic output.
func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
