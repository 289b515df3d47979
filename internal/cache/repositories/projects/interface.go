package projects

import (
	"context"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

type Repository interface {
	// Create inserts p, assigning an ID and creation time when unset.
	Create(ctx context.Context, p *models.Project) error
	// Update replaces the editable fields of an existing project.
	Update(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// GetAll returns projects most recently updated first.
	GetAll(ctx context.Context) ([]models.Project, error)
	DeleteByID(ctx context.Context, id string) error
	GetAllPending(ctx context.Context) ([]models.Project, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
