// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type (
	// Provisioner runs the full hook: fetch, verify, execute.
	Provisioner struct {
		fetcher *Fetcher
		logger  *log.Logger
	}

	// Options describes one provisioning run.
	Options struct {
		// URL locates the script.
		URL string
		// SHA256 is an optional hex digest the script must match.
		SHA256 string
		// Dir is the script's working directory.
		Dir string
		// Timeout bounds the fetch plus the execution.
		Timeout time.Duration
		// Env is the script's environment; nil means the process environment.
		Env []string
		// Stdout and Stderr receive the script's output; nil means the
		// process's own streams.
		Stdout, Stderr io.Writer
	}
)

// New creates a Provisioner.
func New(opts ...FetcherOption) *Provisioner {
	return &Provisioner{
		fetcher: NewFetcher(opts...),
		logger:  log.NewWithOptions(os.Stderr, log.Options{Prefix: "provision"}),
	}
}

// Run fetches the script at opts.URL, verifies it when a digest is
// configured, and executes it. The first failure aborts the run; the script
// never executes unless the full, verified body is in hand.
func (p *Provisioner) Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	p.logger.Info("Fetching provisioning script", "url", opts.URL)
	script, err := p.fetcher.Fetch(ctx, opts.URL)
	if err != nil {
		return err
	}

	if opts.SHA256 != "" {
		if err := VerifyChecksum(script, opts.SHA256); err != nil {
			return err
		}
		p.logger.Debug("Checksum verified", "sha256", opts.SHA256)
	}

	env := opts.Env
	if env == nil {
		env = os.Environ()
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	p.logger.Info("Running provisioning script", "bytes", len(script))
	runner := &Runner{
		Dir:    opts.Dir,
		Env:    env,
		Stdout: stdout,
		Stderr: stderr,
	}
	return runner.Run(ctx, script)
}
