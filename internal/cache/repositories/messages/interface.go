package messages

import (
	"context"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

type Repository interface {
	// Create inserts m. An empty Status defaults to complete.
	Create(ctx context.Context, m *models.Message) error
	UpdateContent(ctx context.Context, id, content string) error
	UpdateStatus(ctx context.Context, id string, status models.MessageStatus) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListByConversation returns messages oldest first.
	ListByConversation(ctx context.Context, conversationID string) ([]models.Message, error)
	DeleteByID(ctx context.Context, id string) error
	GetAllPending(ctx context.Context) ([]models.Message, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
