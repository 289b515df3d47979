package users

import (
	"context"
	"time"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

// Repository persists the signed-in users known to this device.
type Repository interface {
	// CreateOrUpdate inserts the user or replaces its profile fields by ID.
	// An existing last_login_at is kept when u.LastLoginAt is nil.
	CreateOrUpdate(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	// TouchLogin records a successful sign-in at the given time.
	TouchLogin(ctx context.Context, id string, at time.Time) error
	DeleteByID(ctx context.Context, id string) error
	GetAllPending(ctx context.Context) ([]models.User, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}
