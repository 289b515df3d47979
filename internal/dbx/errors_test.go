package dbx

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConstraintDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "c.db")+"?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`
CREATE TABLE parent (id TEXT PRIMARY KEY);
CREATE TABLE child (
  id TEXT PRIMARY KEY,
  parent_id TEXT NOT NULL REFERENCES parent(id),
  kind TEXT NOT NULL CHECK (kind IN ('a', 'b'))
);
CREATE TRIGGER child_guard BEFORE UPDATE OF kind ON child
BEGIN
  SELECT RAISE(ABORT, 'kind is immutable');
END;
INSERT INTO parent (id) VALUES ('p1');
INSERT INTO child (id, parent_id, kind) VALUES ('c1', 'p1', 'a');
`)
	require.NoError(t, err)
	return db
}

func TestClassifyError_Kinds(t *testing.T) {
	db := setupConstraintDB(t)

	tests := []struct {
		name  string
		query string
		kind  ConstraintKind
	}{
		{"foreign key", `INSERT INTO child (id, parent_id, kind) VALUES ('c2', 'missing', 'a')`, ConstraintForeignKey},
		{"check", `INSERT INTO child (id, parent_id, kind) VALUES ('c2', 'p1', 'z')`, ConstraintCheck},
		{"primary key", `INSERT INTO child (id, parent_id, kind) VALUES ('c1', 'p1', 'a')`, ConstraintUnique},
		{"not null", `INSERT INTO child (id, parent_id, kind) VALUES ('c2', NULL, 'a')`, ConstraintNotNull},
		{"trigger", `UPDATE child SET kind = 'b' WHERE id = 'c1'`, ConstraintTrigger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			require.Error(t, err)

			err = ClassifyError(err)
			require.ErrorIs(t, err, ErrConstraint)

			var ce *ConstraintError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.kind, ce.Kind)
		})
	}
}

func TestClassifyError_PassesThroughOtherErrors(t *testing.T) {
	require.NoError(t, ClassifyError(nil))

	plain := errors.New("plain")
	require.Equal(t, plain, ClassifyError(plain))

	db := setupConstraintDB(t)
	_, err := db.Exec(`SELECT * FROM no_such_table`)
	require.Error(t, err)
	require.NotErrorIs(t, ClassifyError(err), ErrConstraint)
}

func TestClassifyError_Idempotent(t *testing.T) {
	ce := &ConstraintError{Kind: ConstraintCheck, Err: errors.New("x")}
	require.Same(t, ce, ClassifyError(ce))
	require.Contains(t, ce.Error(), "constraint violation (check)")
}
