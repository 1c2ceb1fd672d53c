// SPDX-License-Identifier: MPL-2.0

// Package config loads the user-level pydock configuration: a CUE file
// validated against an embedded schema, merged over defaults via Viper.
// Configuration is optional; a missing file means defaults.
package config
