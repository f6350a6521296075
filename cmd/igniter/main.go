// SPDX-License-Identifier: MPL-2.0

// igniter is the container entrypoint for GPU rental instances. It performs
// the one-shot startup sequence (SSH access, workspace, environment export,
// provisioning hook) and then exec-replaces itself with the process
// supervisor.
package main

func main() {
	Execute()
}
