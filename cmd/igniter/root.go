// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "igniter",
		Short: "Container startup orchestrator for GPU instances",
		Long: TitleStyle.Render("igniter") + SubtitleStyle.Render(" - container startup orchestrator") + `

igniter runs once as the container entrypoint. It installs the operator's
SSH key, materializes the workspace, exports the instance environment for
SSH sessions, runs an optional remote provisioning script, and finally
exec-replaces itself with supervisord.

Configuration is read from the environment:

  SSH_PUBLIC_KEY              public key appended to root's authorized_keys
  WORKSPACE                   user data directory (default /workspace)
  PROVISIONING_SCRIPT         URL of a shell script run once at startup
  PROVISIONING_SCRIPT_SHA256  optional SHA256 the script must match
  PROVISIONING_TIMEOUT        fetch+run deadline (default 10m)
  ENV_EXPORT_FILE             env export target (default /etc/environment)
  SUPERVISOR_CONF             supervisord config passed on handoff`,
	}
)

func init() {
	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
