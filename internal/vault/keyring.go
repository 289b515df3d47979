package vault

import (
	"errors"

	"github.com/zalando/go-keyring"
)

// KeyringBackend stores secrets in the operating system's credential store.
type KeyringBackend struct{}

func NewKeyringBackend() *KeyringBackend {
	return &KeyringBackend{}
}

func (KeyringBackend) Set(service, user, secret string) error {
	return keyring.Set(service, user, secret)
}

func (KeyringBackend) Get(service, user string) (string, error) {
	secret, err := keyring.Get(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	return secret, err
}

func (KeyringBackend) Delete(service, user string) error {
	err := keyring.Delete(service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
