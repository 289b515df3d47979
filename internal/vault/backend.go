package vault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jb-empire/empire-desktop/internal/common"
)

// ErrNotFound is returned by a Backend when no secret exists for the
// requested (service, user) pair.
var ErrNotFound = errors.New("secret not found")

// Backend is the capability the vault needs from a credential store.
// Implementations must return ErrNotFound (possibly wrapped) for a missing
// entry and must never include the secret in an error.
type Backend interface {
	Set(service, user, secret string) error
	Get(service, user string) (string, error)
	Delete(service, user string) error
}

// Backend kinds accepted by OpenBackend.
const (
	BackendSystem = "system"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// BackendOptions configures OpenBackend.
type BackendOptions struct {
	Kind       string
	FilePath   string
	Passphrase []byte
}

// OpenBackend constructs the backend named by opts.Kind.
func OpenBackend(opts BackendOptions) (Backend, error) {
	switch strings.ToLower(opts.Kind) {
	case "", BackendSystem:
		return NewKeyringBackend(), nil
	case BackendFile:
		return NewFileBackend(opts.FilePath, opts.Passphrase)
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: vault backend %q", common.ErrorUnknownBackend, opts.Kind)
	}
}
