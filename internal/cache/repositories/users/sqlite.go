package users

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

const selectColumns = `id, email, name, avatar_url, created_at, updated_at, last_login_at, synced_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateOrUpdate(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = models.NewID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	created := models.FormatTime(u.CreatedAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, avatar_url, created_at, updated_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			avatar_url = excluded.avatar_url,
			last_login_at = COALESCE(excluded.last_login_at, users.last_login_at)
	`, u.ID, u.Email, u.Name, u.AvatarURL, created, created, models.NullTime(u.LastLoginAt))
	if err != nil {
		return fmt.Errorf("failed to save user %s: %w", u.ID, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (r *SQLiteRepository) TouchLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, models.FormatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to record login for user %s: %w", id, dbx.ClassifyError(err))
	}
	return expectRow(res)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM users WHERE synced_at IS NULL ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return result, nil
}

// MarkSynced stamps the row as reconciled. Marking it again with the same
// time leaves it untouched.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	ts := models.FormatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET synced_at = ?
		WHERE id = ? AND (synced_at IS NULL OR synced_at <> ?)
	`, ts, id, ts)
	if err != nil {
		return fmt.Errorf("failed to mark user %s synced: %w", id, dbx.ClassifyError(err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	var (
		u                  models.User
		name, avatar       sql.NullString
		created, updated   string
		lastLogin, syncedS sql.NullString
	)
	if err := s.Scan(&u.ID, &u.Email, &name, &avatar, &created, &updated, &lastLogin, &syncedS); err != nil {
		return nil, err
	}
	u.Name = models.NullString(name)
	u.AvatarURL = models.NullString(avatar)

	var err error
	if u.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	if u.LastLoginAt, err = models.ParseNullTime(lastLogin); err != nil {
		return nil, err
	}
	if u.SyncedAt, err = models.ParseNullTime(syncedS); err != nil {
		return nil, err
	}
	return &u, nil
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
