package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/jb-empire/empire-desktop/internal/logging"
)

var (
	// ErrInvalidHandle is returned when a credential handle cannot be built
	// (empty service, empty identity or missing backend).
	ErrInvalidHandle = errors.New("invalid credential handle")
	// ErrEmptySecret is returned by Store for an empty secret.
	ErrEmptySecret = errors.New("empty secret")
)

// Op names a vault operation.
type Op string

const (
	OpStore    Op = "store"
	OpRetrieve Op = "retrieve"
	OpDelete   Op = "delete"
	OpExists   Op = "exists"
)

var opPhrases = map[Op]string{
	OpStore:    "store secret in",
	OpRetrieve: "retrieve secret from",
	OpDelete:   "delete secret from",
	OpExists:   "check secret in",
}

// OperationError reports a backend failure other than a missing entry.
type OperationError struct {
	Op       Op
	Identity string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("failed to %s keychain: %v", opPhrases[e.Op], e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// Vault stores one secret per identity under a fixed service namespace.
type Vault struct {
	service string
	backend Backend
	logger  logging.Logger
}

// New returns a Vault for service backed by backend. A nil logger discards
// audit output.
func New(service string, backend Backend, logger logging.Logger) (*Vault, error) {
	if service == "" {
		return nil, fmt.Errorf("%w: empty service name", ErrInvalidHandle)
	}
	if backend == nil {
		return nil, fmt.Errorf("%w: nil backend", ErrInvalidHandle)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Vault{
		service: service,
		backend: backend,
		logger:  logger.With("component", "vault", "service", service),
	}, nil
}

// Service returns the namespace the vault writes under.
func (v *Vault) Service() string {
	return v.service
}

// Store creates or overwrites the secret for identity.
func (v *Vault) Store(ctx context.Context, identity, secret string) error {
	if err := v.checkHandle(identity); err != nil {
		return err
	}
	if secret == "" {
		return ErrEmptySecret
	}

	if err := v.backend.Set(v.service, identity, secret); err != nil {
		return &OperationError{Op: OpStore, Identity: identity, Err: err}
	}

	v.logger.Info(ctx, "secret stored", "op", OpStore, "identity", identity)
	return nil
}

// Retrieve returns the secret for identity. ok is false, with a nil error,
// when nothing is stored.
func (v *Vault) Retrieve(ctx context.Context, identity string) (secret string, ok bool, err error) {
	secret, ok, err = v.lookup(identity, OpRetrieve)
	if err != nil {
		return "", false, err
	}

	if ok {
		v.logger.Info(ctx, "secret retrieved", "op", OpRetrieve, "identity", identity, "present", true)
	} else {
		v.logger.Info(ctx, "no secret found", "op", OpRetrieve, "identity", identity, "present", false)
	}
	return secret, ok, nil
}

// Delete removes the secret for identity. Deleting an absent secret
// succeeds.
func (v *Vault) Delete(ctx context.Context, identity string) error {
	if err := v.checkHandle(identity); err != nil {
		return err
	}

	err := v.backend.Delete(v.service, identity)
	switch {
	case err == nil:
		v.logger.Info(ctx, "secret deleted", "op", OpDelete, "identity", identity)
	case errors.Is(err, ErrNotFound):
		v.logger.Info(ctx, "no secret to delete", "op", OpDelete, "identity", identity)
	default:
		return &OperationError{Op: OpDelete, Identity: identity, Err: err}
	}
	return nil
}

// Exists reports whether a secret is stored for identity.
func (v *Vault) Exists(ctx context.Context, identity string) (bool, error) {
	_, ok, err := v.lookup(identity, OpExists)
	if err != nil {
		return false, err
	}
	v.logger.Info(ctx, "secret presence checked", "op", OpExists, "identity", identity, "present", ok)
	return ok, nil
}

func (v *Vault) lookup(identity string, op Op) (string, bool, error) {
	if err := v.checkHandle(identity); err != nil {
		return "", false, err
	}

	secret, err := v.backend.Get(v.service, identity)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &OperationError{Op: op, Identity: identity, Err: err}
	}
	return secret, true, nil
}

func (v *Vault) checkHandle(identity string) error {
	if identity == "" {
		return fmt.Errorf("failed to create keychain entry: %w: empty identity", ErrInvalidHandle)
	}
	return nil
}
