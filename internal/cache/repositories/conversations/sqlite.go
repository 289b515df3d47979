package conversations

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

const selectColumns = `id, project_id, title, created_at, updated_at, message_count, last_message_at, synced_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts c. c.MessageCount and c.LastMessageAt are ignored and
// reset to their empty values.
func (r *SQLiteRepository) Create(ctx context.Context, c *models.Conversation) error {
	if c.ID == "" {
		c.ID = models.NewID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = c.CreatedAt
	c.MessageCount = 0
	c.LastMessageAt = nil
	created := models.FormatTime(c.CreatedAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversations (id, project_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID, c.ProjectID, c.Title, created, created)
	if err != nil {
		return fmt.Errorf("failed to create conversation: %w", dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) UpdateTitle(ctx context.Context, id, title string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("failed to rename conversation %s: %w", id, dbx.ClassifyError(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) MoveToProject(ctx context.Context, id string, projectID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE conversations SET project_id = ? WHERE id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("failed to move conversation %s: %w", id, dbx.ClassifyError(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM conversations WHERE id = ?`, id)
	c, err := scanConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation %s: %w", id, err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]models.Conversation, error) {
	if limit <= 0 {
		limit = -1
	}
	return r.list(ctx, `SELECT `+selectColumns+` FROM conversations ORDER BY updated_at DESC LIMIT ?`, limit)
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID string) ([]models.Conversation, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM conversations WHERE project_id = ? ORDER BY updated_at DESC`, projectID)
}

// DeleteByID removes the conversation and, through the foreign key, its
// messages.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation %s: %w", id, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.Conversation, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM conversations WHERE synced_at IS NULL ORDER BY created_at`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	ts := models.FormatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE conversations SET synced_at = ?
		WHERE id = ? AND (synced_at IS NULL OR synced_at <> ?)
	`, ts, id, ts)
	if err != nil {
		return fmt.Errorf("failed to mark conversation %s synced: %w", id, dbx.ClassifyError(err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var result []models.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConversation(s scanner) (*models.Conversation, error) {
	var (
		c                   models.Conversation
		projectID           sql.NullString
		created, updated    string
		lastMessage, synced sql.NullString
	)
	if err := s.Scan(&c.ID, &projectID, &c.Title, &created, &updated, &c.MessageCount, &lastMessage, &synced); err != nil {
		return nil, err
	}
	c.ProjectID = models.NullString(projectID)

	var err error
	if c.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	if c.LastMessageAt, err = models.ParseNullTime(lastMessage); err != nil {
		return nil, err
	}
	if c.SyncedAt, err = models.ParseNullTime(synced); err != nil {
		return nil, err
	}
	return &c, nil
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
