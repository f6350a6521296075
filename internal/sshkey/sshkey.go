// SPDX-License-Identifier: MPL-2.0

// Package sshkey installs operator-supplied public keys into an
// authorized_keys file. Installs are append-only and idempotent: existing
// keys are never removed, and re-installing a key already present is a no-op.
package sshkey

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"
)

const (
	// authorizedKeysMode is the required mode of the authorized_keys file.
	// sshd refuses keys from group/world-accessible files.
	authorizedKeysMode = 0o600

	// sshDirMode is the required mode of the containing .ssh directory.
	sshDirMode = 0o700
)

// ErrInvalidKey is returned when the supplied value is not a parseable
// authorized_keys-format public key.
var ErrInvalidKey = errors.New("invalid SSH public key")

// Parse validates a raw authorized_keys-format line and returns the parsed
// key plus its trailing comment. Leading options (from="...", command="...")
// are accepted, matching sshd's own grammar.
func Parse(raw string) (ssh.PublicKey, string, error) {
	key, comment, _, _, err := ssh.ParseAuthorizedKey([]byte(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return key, comment, nil
}

// Fingerprint returns the SHA256 fingerprint of a raw public key, for
// displaying which key is configured without echoing the key material.
func Fingerprint(raw string) (string, error) {
	key, _, err := Parse(raw)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(key), nil
}

// Install appends the raw public key line to the authorized_keys file at
// path. The parent directory is created with mode 0700 when missing, the
// file is created when missing and never truncated, and the file mode is
// 0600 after every successful call. When the same key is already present
// (compared by parsed wire format, not raw text) the call succeeds without
// modifying the file.
func Install(path, raw string) error {
	key, _, err := Parse(raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), sshDirMode); err != nil {
		return fmt.Errorf("creating SSH directory: %w", err)
	}

	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if containsKey(existing, key) {
		// Still enforce the mode: the file may predate this boot.
		if err := os.Chmod(path, authorizedKeysMode); err != nil {
			return fmt.Errorf("setting mode on %s: %w", path, err)
		}
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, authorizedKeysMode)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	line := strings.TrimRight(raw, "\r\n") + "\n"
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("appending key to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	// OpenFile's mode only applies on creation; pre-existing files keep
	// whatever mode they had.
	if err := os.Chmod(path, authorizedKeysMode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}

	return nil
}

// containsKey reports whether any line of an authorized_keys file parses to
// the same wire-format key.
func containsKey(content []byte, key ssh.PublicKey) bool {
	want := key.Marshal()
	for line := range strings.Lines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(line))
		if err != nil {
			continue
		}
		if bytes.Equal(parsed.Marshal(), want) {
			return true
		}
	}
	return false
}
