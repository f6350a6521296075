// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Runner executes a provisioning script with the in-process shell
	// interpreter, so exit status and environment handling are explicit
	// rather than whatever /bin/sh happens to do.
	Runner struct {
		// Dir is the working directory for the script (the workspace).
		Dir string
		// Env is the script's environment in "KEY=value" form.
		Env []string
		// Stdin, Stdout and Stderr are the script's standard streams.
		Stdin          io.Reader
		Stdout, Stderr io.Writer
	}

	// ScriptError reports a script that ran and exited non-zero.
	ScriptError struct {
		ExitCode int
	}
)

// Error formats the non-zero exit for the boot log.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("provisioning script exited with status %d", e.ExitCode)
}

// Run parses and executes the script. A parse failure, a non-zero exit
// (returned as *ScriptError) and a context cancellation are all errors.
func (r *Runner) Run(ctx context.Context, script []byte) error {
	prog, err := syntax.NewParser().Parse(bytes.NewReader(script), "provisioning-script")
	if err != nil {
		return fmt.Errorf("parsing provisioning script: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(r.Env...)),
		interp.StdIO(r.Stdin, r.Stdout, r.Stderr),
	)
	if err != nil {
		return fmt.Errorf("creating shell interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return &ScriptError{ExitCode: int(exitStatus)}
		}
		return fmt.Errorf("running provisioning script: %w", err)
	}
	return nil
}
