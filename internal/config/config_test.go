// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
	"time"
)

// validConfig returns a minimal valid configuration for mutation in tests.
func validConfig() *Config {
	return &Config{
		Workspace:           DefaultWorkspace,
		SupervisorConf:      DefaultSupervisorConf,
		EnvExportFile:       DefaultEnvExportFile,
		ProvisioningTimeout: DefaultProvisioningTimeout,
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Workspace != DefaultWorkspace {
		t.Errorf("workspace: got %q, want %q", cfg.Workspace, DefaultWorkspace)
	}
	if cfg.SupervisorConf != DefaultSupervisorConf {
		t.Errorf("supervisor conf: got %q, want %q", cfg.SupervisorConf, DefaultSupervisorConf)
	}
	if cfg.EnvExportFile != DefaultEnvExportFile {
		t.Errorf("env export file: got %q, want %q", cfg.EnvExportFile, DefaultEnvExportFile)
	}
	if cfg.ProvisioningTimeout != DefaultProvisioningTimeout {
		t.Errorf("provisioning timeout: got %s, want %s", cfg.ProvisioningTimeout, DefaultProvisioningTimeout)
	}
	if cfg.SSHPublicKey != "" {
		t.Errorf("ssh public key: got %q, want empty", cfg.SSHPublicKey)
	}
	if cfg.ProvisioningScript != "" {
		t.Errorf("provisioning script: got %q, want empty", cfg.ProvisioningScript)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SSH_PUBLIC_KEY", "ssh-ed25519 AAAA test@host")
	t.Setenv("WORKSPACE", "/data")
	t.Setenv("PROVISIONING_SCRIPT", "https://example.com/setup.sh")
	t.Setenv("PROVISIONING_TIMEOUT", "90s")
	t.Setenv("SUPERVISOR_CONF", "/etc/supervisord.conf")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SSHPublicKey != "ssh-ed25519 AAAA test@host" {
		t.Errorf("ssh public key: got %q", cfg.SSHPublicKey)
	}
	if cfg.Workspace != "/data" {
		t.Errorf("workspace: got %q, want /data", cfg.Workspace)
	}
	if cfg.ProvisioningScript != "https://example.com/setup.sh" {
		t.Errorf("provisioning script: got %q", cfg.ProvisioningScript)
	}
	if cfg.ProvisioningTimeout != 90*time.Second {
		t.Errorf("provisioning timeout: got %s, want 90s", cfg.ProvisioningTimeout)
	}
	if cfg.SupervisorConf != "/etc/supervisord.conf" {
		t.Errorf("supervisor conf: got %q", cfg.SupervisorConf)
	}
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("WORKSPACE", "relative/path")

	if _, err := Load(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:   "optional fields all set",
			mutate: func(c *Config) {
				c.SSHPublicKey = "ssh-ed25519 AAAA user@host"
				c.ProvisioningScript = "https://example.com/setup.sh"
				c.ProvisioningSHA256 = "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"
			},
		},
		{
			name:   "env export disabled",
			mutate: func(c *Config) { c.EnvExportFile = "" },
		},
		{
			name:    "relative workspace",
			mutate:  func(c *Config) { c.Workspace = "workspace" },
			wantErr: true,
		},
		{
			name:    "empty workspace",
			mutate:  func(c *Config) { c.Workspace = "" },
			wantErr: true,
		},
		{
			name:    "relative supervisor conf",
			mutate:  func(c *Config) { c.SupervisorConf = "supervisord.conf" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.ProvisioningTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "file scheme provisioning URL",
			mutate:  func(c *Config) { c.ProvisioningScript = "file:///etc/passwd" },
			wantErr: true,
		},
		{
			name:    "short checksum",
			mutate:  func(c *Config) { c.ProvisioningSHA256 = "abc123" },
			wantErr: true,
		},
		{
			name:    "non-hex checksum",
			mutate:  func(c *Config) { c.ProvisioningSHA256 = "zz86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
