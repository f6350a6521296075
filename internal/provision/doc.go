// SPDX-License-Identifier: MPL-2.0

// Package provision implements the operator-supplied startup hook: a shell
// script identified by URL, fetched once at boot and executed in the instance
// environment.
//
// The trust model is deliberate: the operator who configures the URL is fully
// trusted, and the script may do anything. What this package refuses to do is
// fail silently. The script is fetched completely into memory under a
// deadline before a single line of it runs; a non-2xx response, a truncated
// body, or a checksum mismatch (when one is configured) aborts the boot
// instead of executing a partial or empty script.
package provision
