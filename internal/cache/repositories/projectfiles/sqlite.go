package projectfiles

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

const selectColumns = `id, project_id, filename, file_path, file_size, mime_type, created_at, updated_at, synced_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, f *models.ProjectFile) error {
	if f.ID == "" {
		f.ID = models.NewID()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	f.UpdatedAt = f.CreatedAt
	created := models.FormatTime(f.CreatedAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_files (id, project_id, filename, file_path, file_size, mime_type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.ID, f.ProjectID, f.Filename, f.FilePath, f.FileSize, f.MimeType, created, created)
	if err != nil {
		return fmt.Errorf("failed to add file to project %s: %w", f.ProjectID, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ProjectFile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM project_files WHERE id = ?`, id)
	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project file %s: %w", id, err)
	}
	return f, nil
}

func (r *SQLiteRepository) ListByProject(ctx context.Context, projectID string) ([]models.ProjectFile, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM project_files WHERE project_id = ? ORDER BY filename`, projectID)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project file %s: %w", id, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.ProjectFile, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM project_files WHERE synced_at IS NULL ORDER BY created_at`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	ts := models.FormatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE project_files SET synced_at = ?
		WHERE id = ? AND (synced_at IS NULL OR synced_at <> ?)
	`, ts, id, ts)
	if err != nil {
		return fmt.Errorf("failed to mark project file %s synced: %w", id, dbx.ClassifyError(err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.ProjectFile, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list project files: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project file row: %w", err)
		}
		result = append(result, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project file rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(s scanner) (*models.ProjectFile, error) {
	var (
		f                models.ProjectFile
		size             sql.NullInt64
		mime, synced     sql.NullString
		created, updated string
	)
	if err := s.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.FilePath, &size, &mime, &created, &updated, &synced); err != nil {
		return nil, err
	}
	if size.Valid {
		n := size.Int64
		f.FileSize = &n
	}
	f.MimeType = models.NullString(mime)

	var err error
	if f.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if f.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	if f.SyncedAt, err = models.ParseNullTime(synced); err != nil {
		return nil, err
	}
	return &f, nil
}
