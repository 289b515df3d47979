// Package migrations holds the embedded, forward-only schema migrations of
// the local cache and the runner that applies them.
//
// Migrations are numbered goose SQL files. The embedded versions must form
// the contiguous sequence 1..N; a gap or duplicate is a build defect and is
// reported as ErrMigrationSequence before anything touches the database.
// Every statement is guarded (IF NOT EXISTS, OR IGNORE), so re-running a
// migration against a database that already has its effects is harmless.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
