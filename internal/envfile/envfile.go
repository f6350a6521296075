// SPDX-License-Identifier: MPL-2.0

// Package envfile exports the instance environment to an /etc/environment
// style file so interactive SSH sessions inherit the container's variables
// (CUDA paths, library locations, platform metadata). Without this, a user
// SSHing into the instance sees a bare login environment instead of the one
// the platform configured.
package envfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// fileMode matches the conventional /etc/environment permissions.
const fileMode = 0o644

// skipVars are per-session variables that would be wrong or harmful to pin
// globally for every future login.
var skipVars = map[string]bool{
	"HOME":     true,
	"HOSTNAME": true,
	"OLDPWD":   true,
	"PWD":      true,
	"SHLVL":    true,
	"TERM":     true,
	"USER":     true,
	"_":        true,
}

// Export writes environ (in the os.Environ "KEY=value" form) to path as
// KEY="value" lines, excluding per-session variables. The write is atomic:
// a partially written file is never observable at path.
func Export(path string, environ []string) error {
	keys := make([]string, 0, len(environ))
	values := make(map[string]string, len(environ))

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" || skipVars[key] {
			continue
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%q\n", key, values[key])
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".env-export-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing environment export: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting mode on environment export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing environment export: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
