package conversations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb-empire/empire-desktop/internal/cache/migrations"
	"github.com/jb-empire/empire-desktop/internal/cache/models"
	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/dbx"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "cache.db") + "?_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Run(context.Background(), db, migrations.Options{})
	require.NoError(t, err)
	return db
}

func insertProject(t *testing.T, db *sql.DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, name) VALUES (?, ?)`, id, "project "+id)
	require.NoError(t, err)
}

func insertMessage(t *testing.T, db *sql.DB, id, conversationID, createdAt string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, 'user', 'hi', ?)`,
		id, conversationID, createdAt)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestCreateAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	insertProject(t, db, "p1")
	pid := "p1"
	c := &models.Conversation{Title: "Hello", ProjectID: &pid, MessageCount: 9}
	require.NoError(t, r.Create(ctx, c))
	assert.Equal(t, int64(0), c.MessageCount)

	got, err := r.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "p1", *got.ProjectID)
	assert.Equal(t, int64(0), got.MessageCount)
	assert.Nil(t, got.LastMessageAt)
}

func TestCreate_UnknownProjectRejected(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	pid := "missing"
	err := r.Create(context.Background(), &models.Conversation{Title: "x", ProjectID: &pid})
	require.Error(t, err)

	var ce *dbx.ConstraintError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, dbx.ConstraintForeignKey, ce.Kind)
	assert.Equal(t, 0, countRows(t, db, "conversations"))
}

func TestUpdateTitle(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	c := &models.Conversation{ID: "c1", Title: "old", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, r.Create(ctx, c))
	require.NoError(t, r.UpdateTitle(ctx, "c1", "new"))

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.True(t, got.UpdatedAt.After(c.CreatedAt))

	assert.ErrorIs(t, r.UpdateTitle(ctx, "absent", "x"), common.ErrorNotFound)
}

func TestMoveToProject(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	insertProject(t, db, "p1")
	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))

	pid := "p1"
	require.NoError(t, r.MoveToProject(ctx, "c1", &pid))
	list, err := r.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, r.MoveToProject(ctx, "c1", nil))
	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	bad := "nope"
	err = r.MoveToProject(ctx, "c1", &bad)
	assert.ErrorIs(t, err, dbx.ErrConstraint)
}

func TestListRecent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"c1", "c2", "c3"} {
		c := &models.Conversation{ID: id, Title: id, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, r.Create(ctx, c))
	}

	list, err := r.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c3", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)

	list, err = r.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDerivedFieldsFollowMessages(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))
	insertMessage(t, db, "m1", "c1", "2025-01-01T00:00:01.000Z")
	insertMessage(t, db, "m2", "c1", "2025-01-01T00:00:02.000Z")

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.MessageCount)
	assert.Equal(t, "2025-01-01T00:00:02.000Z", models.FormatTime(*got.LastMessageAt))

	_, err = db.Exec(`DELETE FROM messages WHERE id = 'm2'`)
	require.NoError(t, err)
	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.MessageCount)
	assert.Equal(t, "2025-01-01T00:00:01.000Z", models.FormatTime(*got.LastMessageAt))

	_, err = db.Exec(`DELETE FROM messages WHERE id = 'm1'`)
	require.NoError(t, err)
	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.MessageCount)
	assert.Nil(t, got.LastMessageAt)
}

func TestLastMessageAtBackdatedInsert(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))
	insertMessage(t, db, "m1", "c1", "2025-01-01T00:00:05.000Z")
	insertMessage(t, db, "m2", "c1", "2025-01-01T00:00:01.000Z")
	insertMessage(t, db, "m3", "c1", "2025-01-01T00:00:03.000Z")

	// insert: the latest inserted message wins
	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:03.000Z", models.FormatTime(*got.LastMessageAt))

	// delete: the newest remaining created_at wins
	_, err = db.Exec(`DELETE FROM messages WHERE id = 'm2'`)
	require.NoError(t, err)
	got, err = r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T00:00:05.000Z", models.FormatTime(*got.LastMessageAt))
}

func TestDerivedFieldsNotWritable(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))
	insertMessage(t, db, "m1", "c1", "2025-01-01T00:00:01.000Z")

	tests := []struct {
		name  string
		query string
	}{
		{"count update", `UPDATE conversations SET message_count = 42 WHERE id = 'c1'`},
		{"last message update", `UPDATE conversations SET last_message_at = '2030-01-01T00:00:00.000Z' WHERE id = 'c1'`},
		{"clear last message", `UPDATE conversations SET last_message_at = NULL WHERE id = 'c1'`},
		{"insert with count", `INSERT INTO conversations (id, title, message_count) VALUES ('c2', 't', 5)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.Exec(tt.query)
			require.Error(t, err)

			var ce *dbx.ConstraintError
			require.ErrorAs(t, dbx.ClassifyError(err), &ce)
			assert.Equal(t, dbx.ConstraintTrigger, ce.Kind)
		})
	}

	got, err := r.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.MessageCount)
	assert.Equal(t, "2025-01-01T00:00:01.000Z", models.FormatTime(*got.LastMessageAt))
	assert.Equal(t, 1, countRows(t, db, "conversations"))
}

func TestMessageMoveRecomputesBothConversations(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "a", Title: "a"}))
	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "b", Title: "b"}))
	insertMessage(t, db, "m1", "a", "2025-01-01T00:00:01.000Z")
	insertMessage(t, db, "m2", "a", "2025-01-01T00:00:02.000Z")

	_, err := db.Exec(`UPDATE messages SET conversation_id = 'b' WHERE id = 'm2'`)
	require.NoError(t, err)

	a, err := r.GetByID(ctx, "a")
	require.NoError(t, err)
	b, err := r.GetByID(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.MessageCount)
	assert.Equal(t, int64(1), b.MessageCount)
	assert.Equal(t, "2025-01-01T00:00:02.000Z", models.FormatTime(*b.LastMessageAt))
}

func TestDeleteByID_CascadesMessages(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))
	insertMessage(t, db, "m1", "c1", "2025-01-01T00:00:01.000Z")

	require.NoError(t, r.DeleteByID(ctx, "c1"))
	assert.Equal(t, 0, countRows(t, db, "messages"))

	_, err := r.GetByID(ctx, "c1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPendingAndMarkSynced(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Conversation{ID: "c1", Title: "t"}))
	require.NoError(t, r.MarkSynced(ctx, "c1", time.Now()))

	pending, err := r.GetAllPending(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// a new message changes the aggregate, so the conversation is dirty again
	insertMessage(t, db, "m1", "c1", "2025-01-01T00:00:01.000Z")
	pending, err = r.GetAllPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c1", pending[0].ID)
}
