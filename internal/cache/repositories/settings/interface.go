package settings

import (
	"context"

	"github.com/jb-empire/empire-desktop/internal/cache/models"
)

// Repository is a key/value store of user preferences. Values are JSON
// scalars (string, number, boolean or null) kept in encoded form.
type Repository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
