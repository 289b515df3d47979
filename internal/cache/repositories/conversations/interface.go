package conversations

import (
	"context"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Conversation) error
	UpdateTitle(ctx context.Context, id, title string) error
	// MoveToProject attaches the conversation to projectID, or detaches it
	// when projectID is nil.
	MoveToProject(ctx context.Context, id string, projectID *string) error
	GetByID(ctx context.Context, id string) (*models.Conversation, error)
	// ListRecent returns up to limit conversations, most recently updated
	// first. A non-positive limit returns all of them.
	ListRecent(ctx context.Context, limit int) ([]models.Conversation, error)
	ListByProject(ctx context.Context, projectID string) ([]models.Conversation, error)
	DeleteByID(ctx context.Context, id string) error
	GetAllPending(ctx context.Context) ([]models.Conversation, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
