// Package models defines the rows of the local cache.
//
// Nullable columns map to pointers. Timestamps are stored as UTC text in
// common.TimeLayout and surface here as time.Time.
package models

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a fresh primary key.
func NewID() string {
	return uuid.NewString()
}

type User struct {
	ID          string
	Email       string
	Name        *string
	AvatarURL   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastLoginAt *time.Time
	// SyncedAt is nil while the row has local changes the remote has not seen.
	SyncedAt *time.Time
}

type Project struct {
	ID            string
	Name          string
	Description   *string
	Department    *string
	Instructions  *string
	MemoryContext *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	SyncedAt      *time.Time
}

// Conversation belongs to at most one project. MessageCount and
// LastMessageAt are maintained by the database from the messages table and
// are never written by callers.
type Conversation struct {
	ID            string
	ProjectID     *string
	Title         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	MessageCount  int64
	LastMessageAt *time.Time
	SyncedAt      *time.Time
}

type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	Sources        []Source
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Status         MessageStatus
	SyncedAt       *time.Time
}

type ProjectFile struct {
	ID        string
	ProjectID string
	Filename  string
	FilePath  string
	FileSize  *int64
	MimeType  *string
	CreatedAt time.Time
	UpdatedAt time.Time
	SyncedAt  *time.Time
}

// Setting values are JSON scalars kept in their encoded form.
type Setting struct {
	Key       string
	Value     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
