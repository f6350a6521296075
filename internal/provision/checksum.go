// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrChecksumMismatch indicates the fetched script does not match the
// configured SHA256 digest.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// ChecksumError carries both digests for debugging. It wraps
// ErrChecksumMismatch so callers can classify with errors.Is.
type ChecksumError struct {
	Expected string
	Got      string
}

// Error shows both digests; a mismatch usually means the script changed
// upstream after the operator pinned it.
func (e *ChecksumError) Error() string {
	return fmt.Sprintf("provisioning script checksum mismatch\nexpected: %s\ngot:      %s", e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// VerifyChecksum compares the SHA256 of script against the expected hex
// digest (case-insensitive).
func VerifyChecksum(script []byte, expected string) error {
	sum := sha256.Sum256(script)
	got := hex.EncodeToString(sum[:])

	expected = strings.ToLower(strings.TrimSpace(expected))
	if got != expected {
		return &ChecksumError{Expected: expected, Got: got}
	}
	return nil
}
