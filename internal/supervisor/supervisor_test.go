// SPDX-License-Identifier: MPL-2.0

package supervisor

import (
	"errors"
	"slices"
	"testing"
)

func TestHandoff_ExecsResolvedBinary(t *testing.T) {
	t.Parallel()

	var gotArgv0 string
	var gotArgv []string

	s := New(
		WithLookPath(func(name string) (string, error) {
			if name != DefaultBinary {
				t.Errorf("lookup: got %q, want %q", name, DefaultBinary)
			}
			return "/usr/bin/supervisord", nil
		}),
		WithExec(func(argv0 string, argv []string, envv []string) error {
			gotArgv0 = argv0
			gotArgv = argv
			if len(envv) == 0 {
				t.Error("environment not passed through")
			}
			return nil
		}),
	)

	// The injected exec returns nil, which Handoff reports as an error
	// because a real exec never returns on success.
	if err := s.Handoff("/etc/supervisor/supervisord.conf"); err == nil {
		t.Fatal("expected error when injected exec returns")
	}

	if gotArgv0 != "/usr/bin/supervisord" {
		t.Errorf("argv0: got %q", gotArgv0)
	}
	want := []string{"supervisord", "-n", "-c", "/etc/supervisor/supervisord.conf"}
	if !slices.Equal(gotArgv, want) {
		t.Errorf("argv: got %v, want %v", gotArgv, want)
	}
}

func TestHandoff_MissingBinary(t *testing.T) {
	t.Parallel()

	notFound := errors.New("executable file not found")
	s := New(
		WithLookPath(func(string) (string, error) { return "", notFound }),
		WithExec(func(string, []string, []string) error {
			t.Error("exec must not be called when lookup fails")
			return nil
		}),
	)

	if err := s.Handoff("/etc/supervisor/supervisord.conf"); !errors.Is(err, notFound) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func TestHandoff_ExecFailure(t *testing.T) {
	t.Parallel()

	execErr := errors.New("permission denied")
	s := New(
		WithLookPath(func(string) (string, error) { return "/usr/bin/supervisord", nil }),
		WithExec(func(string, []string, []string) error { return execErr }),
	)

	if err := s.Handoff("/etc/supervisord.conf"); !errors.Is(err, execErr) {
		t.Fatalf("expected exec error, got %v", err)
	}
}

func TestHandoff_CustomBinary(t *testing.T) {
	t.Parallel()

	var looked string
	s := New(
		WithBinary("s6-svscan"),
		WithLookPath(func(name string) (string, error) {
			looked = name
			return "/bin/" + name, nil
		}),
		WithExec(func(string, []string, []string) error { return nil }),
	)

	s.Handoff("/etc/s6.conf")
	if looked != "s6-svscan" {
		t.Errorf("lookup: got %q, want s6-svscan", looked)
	}
}
