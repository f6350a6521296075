// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultWorkspace is the directory materialized for user data when
	// WORKSPACE is not set.
	DefaultWorkspace = "/workspace"

	// DefaultSupervisorConf is the supervisor configuration handed over to
	// supervisord when SUPERVISOR_CONF is not set.
	DefaultSupervisorConf = "/etc/supervisor/supervisord.conf"

	// DefaultEnvExportFile is where the instance environment is exported so
	// interactive SSH sessions inherit it.
	DefaultEnvExportFile = "/etc/environment"

	// DefaultProvisioningTimeout bounds the fetch and execution of the
	// provisioning hook. Generous because provisioning scripts on GPU
	// instances routinely download multi-gigabyte model weights.
	DefaultProvisioningTimeout = 10 * time.Minute

	// DefaultAuthorizedKeysPath is the authorized_keys file the SSH key step
	// appends to.
	DefaultAuthorizedKeysPath = "/root/.ssh/authorized_keys"
)

// ErrInvalidConfig is the sentinel wrapped by all Validate failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every environment-driven setting for a container boot.
// Optional string fields use "" to mean "skip the associated step".
type Config struct {
	// SSHPublicKey is an authorized_keys-format public key to install for
	// the root account (SSH_PUBLIC_KEY). Empty skips the step.
	SSHPublicKey string

	// AuthorizedKeysPath is the authorized_keys file the key is appended to.
	// Fixed in production; overridable so tests can use a temp dir.
	AuthorizedKeysPath string

	// Workspace is the user data directory to materialize (WORKSPACE).
	Workspace string

	// ProvisioningScript is the URL of an operator-supplied shell script
	// fetched and executed once at startup (PROVISIONING_SCRIPT). Empty
	// skips the step.
	ProvisioningScript string

	// ProvisioningSHA256 is an optional hex SHA256 digest the fetched script
	// must match before execution (PROVISIONING_SCRIPT_SHA256).
	ProvisioningSHA256 string

	// ProvisioningTimeout bounds the provisioning fetch plus execution
	// (PROVISIONING_TIMEOUT).
	ProvisioningTimeout time.Duration

	// EnvExportFile is where the instance environment is written for SSH
	// sessions (ENV_EXPORT_FILE). Empty disables the export.
	EnvExportFile string

	// SupervisorConf is the supervisord configuration path passed on the
	// final exec handoff (SUPERVISOR_CONF).
	SupervisorConf string
}

// Load reads the startup configuration from the environment, applying
// documented defaults, and validates it.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("workspace", DefaultWorkspace)
	v.SetDefault("supervisor_conf", DefaultSupervisorConf)
	v.SetDefault("env_export_file", DefaultEnvExportFile)
	v.SetDefault("provisioning_timeout", DefaultProvisioningTimeout)

	// The environment variable names are the platform's published contract,
	// so each one is bound explicitly rather than derived from a prefix.
	for key, envVar := range map[string]string{
		"ssh_public_key":       "SSH_PUBLIC_KEY",
		"workspace":            "WORKSPACE",
		"provisioning_script":  "PROVISIONING_SCRIPT",
		"provisioning_sha256":  "PROVISIONING_SCRIPT_SHA256",
		"provisioning_timeout": "PROVISIONING_TIMEOUT",
		"env_export_file":      "ENV_EXPORT_FILE",
		"supervisor_conf":      "SUPERVISOR_CONF",
	} {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("binding %s: %w", envVar, err)
		}
	}

	cfg := &Config{
		SSHPublicKey:        v.GetString("ssh_public_key"),
		AuthorizedKeysPath:  DefaultAuthorizedKeysPath,
		Workspace:           v.GetString("workspace"),
		ProvisioningScript:  v.GetString("provisioning_script"),
		ProvisioningSHA256:  v.GetString("provisioning_sha256"),
		ProvisioningTimeout: v.GetDuration("provisioning_timeout"),
		EnvExportFile:       v.GetString("env_export_file"),
		SupervisorConf:      v.GetString("supervisor_conf"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions that would only
// surface mid-boot otherwise. Optional fields left empty are valid.
func (c *Config) Validate() error {
	if c.Workspace == "" || !filepath.IsAbs(c.Workspace) {
		return fmt.Errorf("%w: workspace must be an absolute path, got %q", ErrInvalidConfig, c.Workspace)
	}
	if c.SupervisorConf == "" || !filepath.IsAbs(c.SupervisorConf) {
		return fmt.Errorf("%w: supervisor config must be an absolute path, got %q", ErrInvalidConfig, c.SupervisorConf)
	}
	if c.ProvisioningTimeout <= 0 {
		return fmt.Errorf("%w: provisioning timeout must be positive, got %s", ErrInvalidConfig, c.ProvisioningTimeout)
	}

	if c.ProvisioningScript != "" {
		u, err := url.Parse(c.ProvisioningScript)
		if err != nil {
			return fmt.Errorf("%w: provisioning script URL: %v", ErrInvalidConfig, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%w: provisioning script URL must be http or https, got %q", ErrInvalidConfig, u.Scheme)
		}
	}

	if c.ProvisioningSHA256 != "" {
		raw, err := hex.DecodeString(c.ProvisioningSHA256)
		if err != nil || len(raw) != 32 {
			return fmt.Errorf("%w: provisioning checksum must be 64 hex characters", ErrInvalidConfig)
		}
	}

	return nil
}
