package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"
)

// DefaultVersionTable is where the applied schema version is persisted.
const DefaultVersionTable = "schema_version"

var ErrMigrationSequence = errors.New("migration versions are not a contiguous sequence")

// MigrationError reports a migration that failed to apply. Its transaction
// was rolled back, so the persisted version is the one before Version.
type MigrationError struct {
	Version int64
	Err     error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d failed: %v", e.Version, e.Err)
}

func (e *MigrationError) Unwrap() error { return e.Err }

type Options struct {
	// VersionTable overrides DefaultVersionTable.
	VersionTable string
}

func (o Options) table() string {
	if o.VersionTable == "" {
		return DefaultVersionTable
	}
	return o.VersionTable
}

type State string

const (
	StateUnapplied State = "unapplied"
	StateApplied   State = "applied"
)

// MigrationState is the status of one embedded migration.
type MigrationState struct {
	Version   int64
	Name      string
	State     State
	AppliedAt time.Time
}

// Applied is one migration executed by Run.
type Applied struct {
	Version  int64
	Name     string
	Duration time.Duration
}

func newProvider(db *sql.DB, opts Options) (*goose.Provider, error) {
	store, err := database.NewStore(database.DialectSQLite3, opts.table())
	if err != nil {
		return nil, fmt.Errorf("failed to create version store: %w", err)
	}
	p, err := goose.NewProvider("", db, FS, goose.WithStore(store))
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	if err := validateSequence(p.ListSources()); err != nil {
		return nil, err
	}
	return p, nil
}

func validateSequence(sources []*goose.Source) error {
	for i, s := range sources {
		want := int64(i + 1)
		if s.Version != want {
			return fmt.Errorf("%w: expected version %d, found %d (%s)", ErrMigrationSequence, want, s.Version, s.Path)
		}
	}
	return nil
}

// Run applies all pending migrations in order, each in its own transaction,
// and returns what it applied. Running against an up-to-date database is a
// no-op.
func Run(ctx context.Context, db *sql.DB, opts Options) ([]Applied, error) {
	p, err := newProvider(db, opts)
	if err != nil {
		return nil, err
	}

	current, err := p.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	sources := p.ListSources()
	if n := int64(len(sources)); current > n {
		return nil, fmt.Errorf("%w: database is at version %d, newest known migration is %d", ErrMigrationSequence, current, n)
	}

	results, err := p.Up(ctx)
	applied := make([]Applied, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		applied = append(applied, Applied{Version: r.Source.Version, Name: r.Source.Path, Duration: r.Duration})
	}
	if err != nil {
		var pe *goose.PartialError
		if errors.As(err, &pe) {
			for _, r := range pe.Applied {
				applied = append(applied, Applied{Version: r.Source.Version, Name: r.Source.Path, Duration: r.Duration})
			}
			if pe.Failed != nil {
				return applied, &MigrationError{Version: pe.Failed.Source.Version, Err: pe.Err}
			}
		}
		return applied, &MigrationError{Version: current + 1, Err: err}
	}
	return applied, nil
}

// Status reports every embedded migration as applied or unapplied.
func Status(ctx context.Context, db *sql.DB, opts Options) ([]MigrationState, error) {
	p, err := newProvider(db, opts)
	if err != nil {
		return nil, err
	}
	st, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}
	out := make([]MigrationState, 0, len(st))
	for _, s := range st {
		ms := MigrationState{Version: s.Source.Version, Name: s.Source.Path, State: StateUnapplied}
		if s.State == goose.StateApplied {
			ms.State = StateApplied
			ms.AppliedAt = s.AppliedAt
		}
		out = append(out, ms)
	}
	return out, nil
}

// Version returns the persisted schema version, 0 for a fresh database.
func Version(ctx context.Context, db *sql.DB, opts Options) (int64, error) {
	p, err := newProvider(db, opts)
	if err != nil {
		return 0, err
	}
	v, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}
