package messages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/dbx"
)

const selectColumns = `id, conversation_id, role, content, sources, created_at, updated_at, status, synced_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts m. Role and status are validated by the schema: a value
// outside their domains comes back as a check constraint error and nothing
// is written.
func (r *SQLiteRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = models.NewID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = m.CreatedAt
	if m.Status == "" {
		m.Status = models.StatusComplete
	}
	sources, err := models.EncodeSources(m.Sources)
	if err != nil {
		return err
	}
	created := models.FormatTime(m.CreatedAt)

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, sources, created_at, updated_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.ConversationID, string(m.Role), m.Content, sources, created, created, string(m.Status))
	if err != nil {
		return fmt.Errorf("failed to create message: %w", dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, dbx.ClassifyError(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.MessageStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set status of message %s: %w", id, dbx.ClassifyError(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return m, nil
}

func (r *SQLiteRepository) ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	return r.list(ctx, `
		SELECT `+selectColumns+` FROM messages
		WHERE conversation_id = ?
		ORDER BY created_at, rowid
	`, conversationID)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message %s: %w", id, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.Message, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM messages WHERE synced_at IS NULL ORDER BY created_at, rowid`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	ts := models.FormatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE messages SET synced_at = ?
		WHERE id = ? AND (synced_at IS NULL OR synced_at <> ?)
	`, ts, id, ts)
	if err != nil {
		return fmt.Errorf("failed to mark message %s synced: %w", id, dbx.ClassifyError(err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate message rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*models.Message, error) {
	var (
		m                models.Message
		role, status     string
		sources, synced  sql.NullString
		created, updated string
	)
	if err := s.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &sources, &created, &updated, &status, &synced); err != nil {
		return nil, err
	}
	m.Role = models.Role(role)
	m.Status = models.MessageStatus(status)

	var err error
	if m.Sources, err = models.DecodeSources(models.NullString(sources)); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	if m.SyncedAt, err = models.ParseNullTime(synced); err != nil {
		return nil, err
	}
	return &m, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
