package config

import (
	"flag"
	"io"

	"github.com/jb-empire/empire-desktop/internal/flagx"
)

var ownFlags = []string{
	"-d", "--d", "-db", "--db",
	"-s", "--s", "-service", "--service",
	"-l", "--l", "-log-level", "--log-level",
}

// parseFlags overlays cfg with the flags it owns from args. Everything else
// in args (subcommands, their flags and positionals) is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, ownFlags)

	fs := flag.NewFlagSet("empire", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the cache database")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path of the cache database")
	fs.StringVar(&cfg.KeyringService, "s", cfg.KeyringService, "keychain service namespace")
	fs.StringVar(&cfg.KeyringService, "service", cfg.KeyringService, "keychain service namespace")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
