package projectfiles

import (
	"context"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

// Repository tracks files attached to a project. Only metadata and the local
// path are stored; file contents stay on disk.
type Repository interface {
	Create(ctx context.Context, f *models.ProjectFile) error
	GetByID(ctx context.Context, id string) (*models.ProjectFile, error)
	ListByProject(ctx context.Context, projectID string) ([]models.ProjectFile, error)
	DeleteByID(ctx context.Context, id string) error
	GetAllPending(ctx context.Context) ([]models.ProjectFile, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
