// SPDX-License-Identifier: MPL-2.0

// Package supervisor performs the terminal boot action: replacing the
// current process image with the long-running process supervisor. This is a
// true execve, not a spawned child, so the supervisor inherits PID 1 and
// receives the container's termination signals directly.
package supervisor

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"
)

// DefaultBinary is the supervisor binary resolved on PATH.
const DefaultBinary = "supervisord"

type (
	// ExecFunc replaces the process image. Production uses unix.Exec, which
	// only ever returns on failure; tests inject a recorder.
	ExecFunc func(argv0 string, argv []string, envv []string) error

	// Supervisor resolves and execs the process supervisor.
	Supervisor struct {
		binary   string
		execve   ExecFunc
		lookPath func(string) (string, error)
	}

	// Option configures a Supervisor during construction.
	Option func(*Supervisor)
)

// WithBinary overrides the supervisor binary name.
func WithBinary(name string) Option {
	return func(s *Supervisor) {
		s.binary = name
	}
}

// WithExec injects the exec syscall, for tests.
func WithExec(fn ExecFunc) Option {
	return func(s *Supervisor) {
		s.execve = fn
	}
}

// WithLookPath injects PATH resolution, for tests.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(s *Supervisor) {
		s.lookPath = fn
	}
}

// New creates a Supervisor.
func New(opts ...Option) *Supervisor {
	s := &Supervisor{
		binary:   DefaultBinary,
		execve:   unix.Exec,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handoff execs into the supervisor with the given configuration file,
// running it in the foreground and passing along the current environment.
// On success control never returns here; every return is a failure.
func (s *Supervisor) Handoff(conf string) error {
	path, err := s.lookPath(s.binary)
	if err != nil {
		return fmt.Errorf("locating %s: %w", s.binary, err)
	}

	argv := []string{s.binary, "-n", "-c", conf}
	if err := s.execve(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}

	// Only reachable with an injected ExecFunc that returned nil.
	return errors.New("exec returned without replacing the process")
}
