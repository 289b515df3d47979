package projects

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

const selectColumns = `id, name, description, department, instructions, memory_context, created_at, updated_at, synced_at`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, p *models.Project) error {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	created := models.FormatTime(p.CreatedAt)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, department, instructions, memory_context, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Department, p.Instructions, p.MemoryContext, created, created)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) Update(ctx context.Context, p *models.Project) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects
		SET name = ?, description = ?, department = ?, instructions = ?, memory_context = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Department, p.Instructions, p.MemoryContext, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", p.ID, dbx.ClassifyError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM projects ORDER BY updated_at DESC`)
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) GetAllPending(ctx context.Context) ([]models.Project, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM projects WHERE synced_at IS NULL ORDER BY created_at`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, at time.Time) error {
	ts := models.FormatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE projects SET synced_at = ?
		WHERE id = ? AND (synced_at IS NULL OR synced_at <> ?)
	`, ts, id, ts)
	if err != nil {
		return fmt.Errorf("failed to mark project %s synced: %w", id, dbx.ClassifyError(err))
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	_, err = r.GetByID(ctx, id)
	return err
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var result []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate project rows: %w", err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*models.Project, error) {
	var (
		p                                   models.Project
		desc, dept, instructions, memoryCtx sql.NullString
		created, updated                    string
		synced                              sql.NullString
	)
	if err := s.Scan(&p.ID, &p.Name, &desc, &dept, &instructions, &memoryCtx, &created, &updated, &synced); err != nil {
		return nil, err
	}
	p.Description = models.NullString(desc)
	p.Department = models.NullString(dept)
	p.Instructions = models.NullString(instructions)
	p.MemoryContext = models.NullString(memoryCtx)

	var err error
	if p.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	if p.SyncedAt, err = models.ParseNullTime(synced); err != nil {
		return nil, err
	}
	return &p, nil
}
