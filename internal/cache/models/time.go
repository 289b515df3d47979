package models

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jb-empire/empire-desktop/internal/common"
)

// FormatTime renders t the way the schema's triggers do.
func FormatTime(t time.Time) string {
	return t.UTC().Format(common.TimeLayout)
}

// sqliteLayout is what datetime('now') produces. The schema rejects it on
// write, but rows from databases created before that guard may carry it.
const sqliteLayout = "2006-01-02 15:04:05"

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(common.TimeLayout, s)
	if err == nil {
		return t, nil
	}
	// rows written by hand may carry RFC 3339 without millis
	if t2, err2 := time.Parse(time.RFC3339Nano, s); err2 == nil {
		return t2.UTC(), nil
	}
	if t2, err2 := time.Parse(sqliteLayout, s); err2 == nil {
		return t2, nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
}

func ParseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := ParseTime(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

func NullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
