// SPDX-License-Identifier: MPL-2.0

// Package config resolves the instance startup configuration from the
// environment. All settings are read exactly once at boot; the resulting
// Config struct is the only configuration surface the rest of the program
// sees, so tests can construct it directly without touching the environment.
package config
