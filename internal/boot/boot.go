// SPDX-License-Identifier: MPL-2.0

// Package boot runs the one-shot container startup sequence: a fixed,
// ordered list of idempotent setup steps followed by a terminal handoff to
// the process supervisor. The sequence is strictly linear and fail-fast;
// there is no retry, no partial-success recovery, and no state to resume.
package boot

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"igniter/internal/config"
	"igniter/internal/envfile"
	"igniter/internal/provision"
	"igniter/internal/sshkey"
	"igniter/internal/supervisor"
	"igniter/internal/workspace"
)

type (
	// Step is one named unit of the startup sequence.
	Step struct {
		Name string
		Run  func(ctx context.Context) error
	}

	// Sequence is the full startup plan for one container boot.
	Sequence struct {
		steps   []Step
		handoff func() error
		logger  *log.Logger
	}

	// Option configures a Sequence during construction.
	Option func(*Sequence)
)

// WithHandoff replaces the terminal supervisor exec, for tests.
func WithHandoff(fn func() error) Option {
	return func(s *Sequence) {
		s.handoff = fn
	}
}

// NewSequence builds the startup sequence for cfg. Step order is fixed:
// ssh-key, workspace, env-export, provision, then the supervisor handoff.
// Steps whose configuration is absent succeed without doing anything.
func NewSequence(cfg *config.Config, opts ...Option) *Sequence {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "boot"})

	s := &Sequence{
		logger:  logger,
		handoff: func() error { return supervisor.New().Handoff(cfg.SupervisorConf) },
	}

	s.steps = []Step{
		{
			Name: "ssh-key",
			Run: func(context.Context) error {
				if cfg.SSHPublicKey == "" {
					logger.Debug("No SSH public key configured, skipping")
					return nil
				}
				return sshkey.Install(cfg.AuthorizedKeysPath, cfg.SSHPublicKey)
			},
		},
		{
			Name: "workspace",
			Run: func(context.Context) error {
				return workspace.Ensure(cfg.Workspace)
			},
		},
		{
			Name: "env-export",
			Run: func(context.Context) error {
				if cfg.EnvExportFile == "" {
					logger.Debug("Environment export disabled, skipping")
					return nil
				}
				return envfile.Export(cfg.EnvExportFile, os.Environ())
			},
		},
		{
			Name: "provision",
			Run: func(ctx context.Context) error {
				if cfg.ProvisioningScript == "" {
					logger.Debug("No provisioning script configured, skipping")
					return nil
				}
				return provision.New().Run(ctx, provision.Options{
					URL:     cfg.ProvisioningScript,
					SHA256:  cfg.ProvisioningSHA256,
					Dir:     cfg.Workspace,
					Timeout: cfg.ProvisioningTimeout,
				})
			},
		},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the steps in order, aborting on the first failure, and then
// hands off to the supervisor. With the real handoff it does not return on
// success; any return value is a startup failure.
func (s *Sequence) Run(ctx context.Context) error {
	for _, step := range s.steps {
		s.logger.Info("Running startup step", "step", step.Name)
		if err := step.Run(ctx); err != nil {
			return fmt.Errorf("startup step %s: %w", step.Name, err)
		}
	}

	s.logger.Info("Startup complete, handing off to supervisor")
	return s.handoff()
}
