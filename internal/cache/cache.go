package cache

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/migrations"
	"github.com/jb-empire/empire-desktop/internal/cache/models"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/conversations"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/messages"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/projectfiles"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/projects"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/settings"
	"github.com/jb-empire/empire-desktop/internal/cache/repositories/users"
	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/dbx"
	"github.com/jb-empire/empire-desktop/internal/filex"
	"github.com/jb-empire/empire-desktop/internal/logging"

	_ "modernc.org/sqlite"
)

const DefaultBusyTimeout = 5 * time.Second

type Options struct {
	// Path of the database file. Its directory is created when missing.
	Path string
	// VersionTable holds the applied schema version; empty means
	// migrations.DefaultVersionTable.
	VersionTable string
	BusyTimeout  time.Duration
}

type Cache struct {
	db     *sql.DB
	opts   Options
	logger logging.Logger
}

// Repos is the set of repositories bound to one handle, either the pool or
// a single transaction.
type Repos struct {
	Users         users.Repository
	Projects      projects.Repository
	Conversations conversations.Repository
	Messages      messages.Repository
	ProjectFiles  projectfiles.Repository
	Settings      settings.Repository
}

func newRepos(db dbx.DBTX) *Repos {
	return &Repos{
		Users:         users.NewSQLiteRepository(db),
		Projects:      projects.NewSQLiteRepository(db),
		Conversations: conversations.NewSQLiteRepository(db),
		Messages:      messages.NewSQLiteRepository(db),
		ProjectFiles:  projectfiles.NewSQLiteRepository(db),
		Settings:      settings.NewSQLiteRepository(db),
	}
}

// DSN builds the modernc.org/sqlite connection string for path.
func DSN(path string, busyTimeout time.Duration) string {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	return "file:" + path + "?" + q.Encode()
}

// Open opens (creating if needed) the database at opts.Path and brings its
// schema up to date. A failed migration leaves the database at the last
// version that applied cleanly and is returned as *migrations.MigrationError.
func Open(ctx context.Context, opts Options, logger logging.Logger) (*Cache, error) {
	if opts.Path == "" {
		return nil, fmt.Errorf("%w: empty database path", common.ErrorInvalidArgument)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	if _, err := filex.EnsureParentDir(opts.Path); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", DSN(opts.Path, opts.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	applied, err := migrations.Run(ctx, db, migrations.Options{VersionTable: opts.VersionTable})
	for _, a := range applied {
		logger.Info(ctx, "migration applied", "version", a.Version, "name", a.Name, "duration", a.Duration)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Cache{db: db, opts: opts, logger: logger}
	if v, err := c.SchemaVersion(ctx); err == nil {
		logger.Debug(ctx, "cache opened", "path", opts.Path, "schema_version", v)
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// DB exposes the pool for callers that need raw statements. Schema rules
// still apply to them.
func (c *Cache) DB() *sql.DB { return c.db }

func (c *Cache) Users() users.Repository { return users.NewSQLiteRepository(c.db) }
func (c *Cache) Projects() projects.Repository { return projects.NewSQLiteRepository(c.db) }
func (c *Cache) Conversations() conversations.Repository { return conversations.NewSQLiteRepository(c.db) }
func (c *Cache) Messages() messages.Repository { return messages.NewSQLiteRepository(c.db) }
func (c *Cache) ProjectFiles() projectfiles.Repository { return projectfiles.NewSQLiteRepository(c.db) }
func (c *Cache) Settings() settings.Repository { return settings.NewSQLiteRepository(c.db) }

// WithTx runs fn with repositories bound to one transaction. Everything fn
// wrote is committed when it returns nil and discarded otherwise.
func (c *Cache) WithTx(ctx context.Context, fn func(ctx context.Context, r *Repos) error) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, newRepos(tx))
	})
}

func (c *Cache) SchemaVersion(ctx context.Context) (int64, error) {
	return migrations.Version(ctx, c.db, migrations.Options{VersionTable: c.opts.VersionTable})
}

func (c *Cache) MigrationStatus(ctx context.Context) ([]migrations.MigrationState, error) {
	return migrations.Status(ctx, c.db, migrations.Options{VersionTable: c.opts.VersionTable})
}

// PendingSet holds every row not yet reconciled with a remote store.
type PendingSet struct {
	Users         []models.User
	Projects      []models.Project
	Conversations []models.Conversation
	Messages      []models.Message
	ProjectFiles  []models.ProjectFile
}

func (p PendingSet) Len() int {
	return len(p.Users) + len(p.Projects) + len(p.Conversations) + len(p.Messages) + len(p.ProjectFiles)
}

// Pending reads all dirty rows in one transaction so the set is consistent.
func (c *Cache) Pending(ctx context.Context) (PendingSet, error) {
	var ps PendingSet
	err := c.WithTx(ctx, func(ctx context.Context, r *Repos) error {
		var err error
		if ps.Users, err = r.Users.GetAllPending(ctx); err != nil {
			return err
		}
		if ps.Projects, err = r.Projects.GetAllPending(ctx); err != nil {
			return err
		}
		if ps.Conversations, err = r.Conversations.GetAllPending(ctx); err != nil {
			return err
		}
		if ps.Messages, err = r.Messages.GetAllPending(ctx); err != nil {
			return err
		}
		ps.ProjectFiles, err = r.ProjectFiles.GetAllPending(ctx)
		return err
	})
	if err != nil {
		return PendingSet{}, err
	}
	return ps, nil
}
