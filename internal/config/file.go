package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jb-empire/empire-desktop/internal/flagx"
	"github.com/jb-empire/empire-desktop/internal/timex"
)

// FileConfig is a DTO used exclusively for decoding config files. Empty
// fields leave the current value alone.
type FileConfig struct {
	DatabasePath       string         `json:"database_path" yaml:"database_path"`
	SchemaVersionTable string         `json:"schema_version_table" yaml:"schema_version_table"`
	BusyTimeout        timex.Duration `json:"busy_timeout" yaml:"busy_timeout"`
	KeyringService     string         `json:"keyring_service" yaml:"keyring_service"`
	VaultBackend       string         `json:"vault_backend" yaml:"vault_backend"`
	VaultFile          string         `json:"vault_file" yaml:"vault_file"`
	VaultPassphraseEnv string         `json:"vault_passphrase_env" yaml:"vault_passphrase_env"`
	LogLevel           string         `json:"log_level" yaml:"log_level"`
	LogFormat          string         `json:"log_format" yaml:"log_format"`
	LogBackend         string         `json:"log_backend" yaml:"log_backend"`
}

func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.DatabasePath, fc.DatabasePath)
	set(&cfg.SchemaVersionTable, fc.SchemaVersionTable)
	set(&cfg.KeyringService, fc.KeyringService)
	set(&cfg.VaultBackend, fc.VaultBackend)
	set(&cfg.VaultFile, fc.VaultFile)
	set(&cfg.VaultPassphraseEnv, fc.VaultPassphraseEnv)
	set(&cfg.LogLevel, fc.LogLevel)
	set(&cfg.LogFormat, fc.LogFormat)
	set(&cfg.LogBackend, fc.LogBackend)
	if fc.BusyTimeout.Duration > 0 {
		cfg.BusyTimeout = fc.BusyTimeout.Duration
	}
}
