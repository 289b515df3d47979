package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache"
	"github.com/jb-empire/empire-desktop/internal/cache/migrations"
	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/logging"
	"github.com/jb-empire/empire-desktop/internal/vault"
)

// Config holds runtime settings for the empire CLI.
type Config struct {
	DatabasePath       string
	SchemaVersionTable string
	BusyTimeout        time.Duration

	KeyringService     string
	VaultBackend       string
	VaultFile          string
	VaultPassphraseEnv string

	LogLevel   string
	LogFormat  string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := defaultDataDir()
	c.DatabasePath = filepath.Join(dir, "empire.db")
	c.SchemaVersionTable = migrations.DefaultVersionTable
	c.BusyTimeout = cache.DefaultBusyTimeout
	c.KeyringService = common.AppName
	c.VaultBackend = vault.BackendSystem
	c.VaultFile = filepath.Join(dir, "vault.json")
	c.VaultPassphraseEnv = "EMPIRE_VAULT_PASSPHRASE"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.LogBackend = "slog"
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, common.AppName)
}

// LoadConfig builds a Config from defaults, then the config file named in
// args (if any), then the flags in args. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	switch c.VaultBackend {
	case vault.BackendSystem, vault.BackendFile, vault.BackendMemory:
	default:
		return fmt.Errorf("%w: vault backend %q", common.ErrorUnknownBackend, c.VaultBackend)
	}
	switch c.LogBackend {
	case "slog", "zap":
	default:
		return fmt.Errorf("%w: log backend %q", common.ErrorUnknownBackend, c.LogBackend)
	}
	if err := logging.ValidateLevel(c.LogLevel); err != nil {
		return err
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: empty database path", common.ErrorInvalidArgument)
	}
	if c.KeyringService == "" {
		return fmt.Errorf("%w: empty keyring service", common.ErrorInvalidArgument)
	}
	return nil
}
