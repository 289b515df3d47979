package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.Setting, error) {
	var (
		s                models.Setting
		created, updated string
	)
	err := r.db.QueryRowContext(ctx, `SELECT key, value, created_at, updated_at FROM settings WHERE key = ?`, key).
		Scan(&s.Key, &s.Value, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting[%s]: %w", key, err)
	}
	if s.CreatedAt, err = models.ParseTime(created); err != nil {
		return nil, err
	}
	if s.UpdatedAt, err = models.ParseTime(updated); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty setting key", common.ErrorInvalidArgument)
	}
	value = strings.TrimSpace(value)
	if err := ValidateValue(value); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting[%s]: %w", key, dbx.ClassifyError(err))
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate setting rows: %w", err)
	}

	return result, nil
}

// ValidateValue reports common.ErrorInvalidSetting unless value is a single
// encoded JSON scalar.
func ValidateValue(value string) error {
	var v any
	if err := json.Unmarshal([]byte(value), &v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInvalidSetting, err)
	}
	switch v.(type) {
	case map[string]any, []any:
		return common.ErrorInvalidSetting
	}
	return nil
}
