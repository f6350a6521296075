// SPDX-License-Identifier: MPL-2.0

// Package workspace materializes the instance's user data directory.
package workspace

import (
	"fmt"
	"os"
)

// dirMode is the mode for a freshly created workspace tree.
const dirMode = 0o755

// Ensure creates the workspace directory recursively. It is a no-op when
// the directory already exists and an error when the path exists but is not
// a directory.
func Ensure(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("workspace path %s exists and is not a directory", path)
		}
		return nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, dirMode); err != nil {
			return fmt.Errorf("creating workspace %s: %w", path, err)
		}
		return nil
	default:
		return fmt.Errorf("checking workspace %s: %w", path, err)
	}
}
