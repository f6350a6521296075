// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"igniter/internal/config"
	"igniter/internal/sshkey"
)

// configCmd prints the resolved startup configuration, for debugging an
// instance template without actually booting.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved startup configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderConfig(cfg))
		return nil
	},
}

// renderConfig formats the configuration for display. Key material is shown
// as a fingerprint, never echoed.
func renderConfig(cfg *config.Config) string {
	sshKey := "(unset)"
	if cfg.SSHPublicKey != "" {
		if fp, err := sshkey.Fingerprint(cfg.SSHPublicKey); err == nil {
			sshKey = fp
		} else {
			sshKey = "(invalid)"
		}
	}

	orUnset := func(v string) string {
		if v == "" {
			return "(unset)"
		}
		return v
	}

	rows := [][2]string{
		{"ssh public key", sshKey},
		{"workspace", cfg.Workspace},
		{"provisioning script", orUnset(cfg.ProvisioningScript)},
		{"provisioning sha256", orUnset(cfg.ProvisioningSHA256)},
		{"provisioning timeout", cfg.ProvisioningTimeout.String()},
		{"env export file", orUnset(cfg.EnvExportFile)},
		{"supervisor conf", cfg.SupervisorConf},
	}

	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "%s  %s\n",
			LabelStyle.Render(fmt.Sprintf("%-22s", row[0])),
			ValueStyle.Render(row[1]))
	}
	return b.String()
}
