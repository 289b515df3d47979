// Package app wires configuration, logging, the secret vault and the local
// cache together for the command-line front end.
//
// The vault backend and the database are opened on first use, so commands
// that need neither (ping, version) never touch the keychain or the disk.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jb-empire/empire-desktop/internal/cache"
	"github.com/jb-empire/empire-desktop/internal/config"
	"github.com/jb-empire/empire-desktop/internal/logging"
	"github.com/jb-empire/empire-desktop/internal/vault"
)

type App struct {
	Config *config.Config
	Logger logging.Logger

	vault *vault.Vault
	cache *cache.Cache
}

// New builds the logger described by cfg, writing to logOut.
func New(cfg *config.Config, logOut io.Writer) (*App, error) {
	logger, err := logging.New(logging.Options{
		Backend: cfg.LogBackend,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  logOut,
	})
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return &App{Config: cfg, Logger: logger}, nil
}

// Vault returns the secret vault, opening its backend on first call.
func (a *App) Vault() (*vault.Vault, error) {
	if a.vault != nil {
		return a.vault, nil
	}

	opts := vault.BackendOptions{Kind: a.Config.VaultBackend}
	if opts.Kind == vault.BackendFile {
		opts.FilePath = a.Config.VaultFile
		opts.Passphrase = []byte(os.Getenv(a.Config.VaultPassphraseEnv))
		if len(opts.Passphrase) == 0 {
			return nil, fmt.Errorf("file vault needs a passphrase in $%s", a.Config.VaultPassphraseEnv)
		}
	}
	backend, err := vault.OpenBackend(opts)
	if err != nil {
		return nil, err
	}

	v, err := vault.New(a.Config.KeyringService, backend, a.Logger)
	if err != nil {
		return nil, err
	}
	a.vault = v
	return v, nil
}

// Cache returns the local cache, opening and migrating it on first call.
func (a *App) Cache(ctx context.Context) (*cache.Cache, error) {
	if a.cache != nil {
		return a.cache, nil
	}
	c, err := cache.Open(ctx, cache.Options{
		Path:         a.Config.DatabasePath,
		VersionTable: a.Config.SchemaVersionTable,
		BusyTimeout:  a.Config.BusyTimeout,
	}, a.Logger.With("component", "cache"))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	a.cache = c
	return c, nil
}

// Close releases whatever was opened and flushes the logger.
func (a *App) Close() error {
	var err error
	if a.cache != nil {
		err = a.cache.Close()
		a.cache = nil
	}
	if s, ok := a.Logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}
