// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"

	"github.com/spf13/cobra"

	"igniter/internal/boot"
	"igniter/internal/config"
	"igniter/internal/provision"
)

// upCmd runs the startup sequence. This is the container entrypoint; on
// success the process image is replaced by supervisord and the command never
// returns.
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the startup sequence and hand off to the supervisor",
	Args:  cobra.NoArgs,
	RunE:  runUp,
}

func runUp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	if err := boot.NewSequence(cfg).Run(cmd.Context()); err != nil {
		// A provisioning script's own exit code is the most useful thing to
		// surface to the platform's instance monitoring.
		var scriptErr *provision.ScriptError
		if errors.As(err, &scriptErr) {
			return &ExitError{Code: scriptErr.ExitCode, Err: err}
		}
		return &ExitError{Code: 1, Err: err}
	}

	// Unreachable in production: a successful sequence ends in execve.
	return nil
}
