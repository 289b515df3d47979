package dbx

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConstraint matches every *ConstraintError via errors.Is.
var ErrConstraint = errors.New("constraint violation")

// ConstraintKind names the storage rule a rejected write broke.
type ConstraintKind string

const (
	ConstraintForeignKey ConstraintKind = "foreign_key"
	ConstraintCheck      ConstraintKind = "check"
	ConstraintUnique     ConstraintKind = "unique"
	ConstraintNotNull    ConstraintKind = "not_null"
	// ConstraintTrigger is raised by a guard trigger, e.g. a write to a
	// derived column.
	ConstraintTrigger ConstraintKind = "trigger"
	ConstraintOther   ConstraintKind = "other"
)

// ConstraintError reports a write rejected by the storage engine. The
// statement has no effect when it is returned.
type ConstraintError struct {
	Kind ConstraintKind
	Err  error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation (%s): %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

func (e *ConstraintError) Is(target error) bool { return target == ErrConstraint }

// ClassifyError converts SQLite constraint failures into *ConstraintError
// and returns any other error unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		if code&0xff != sqlite3.SQLITE_CONSTRAINT {
			return err
		}
		return &ConstraintError{Kind: kindFromCode(code, se.Error()), Err: err}
	}
	return err
}

func kindFromCode(code int, msg string) ConstraintKind {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ConstraintForeignKey
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return ConstraintCheck
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ConstraintUnique
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return ConstraintNotNull
	case sqlite3.SQLITE_CONSTRAINT_TRIGGER:
		return ConstraintTrigger
	}
	return kindFromMessage(msg)
}

// kindFromMessage covers connections where extended result codes are off.
func kindFromMessage(msg string) ConstraintKind {
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ConstraintForeignKey
	case strings.Contains(msg, "CHECK constraint failed"):
		return ConstraintCheck
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ConstraintUnique
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return ConstraintNotNull
	}
	return ConstraintOther
}
