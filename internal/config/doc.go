// Package config loads runtime configuration for the empire CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c / --config. Files ending in
//     .yaml or .yml are read as YAML, anything else as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d, --db string          path of the cache database
//	-s, --service string     keychain service namespace
//	-l, --log-level string   debug, info, warn or error
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "5s" or integer
// nanoseconds:
//
//	{
//	  "database_path": "/home/me/.config/empire-desktop/empire.db",
//	  "schema_version_table": "schema_version",
//	  "busy_timeout": "5s",
//	  "keyring_service": "empire-desktop",
//	  "vault_backend": "system",
//	  "log_level": "info",
//	  "log_format": "text",
//	  "log_backend": "slog"
//	}
//
// Secrets never live in the file: the file vault's passphrase is read from
// the environment variable named by vault_passphrase_env.
package config
