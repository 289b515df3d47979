// Package cryptox wraps the primitives used by the encrypted-file vault
// backend: argon2id key derivation and AES-256-GCM sealing.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"golang.org/x/crypto/argon2"

	"github.com/jb-empire/empire-desktop/internal/common"
)

const (
	// KeySize is the AES-256 key length produced by DeriveKey.
	KeySize = 32
	// SaltSize is the recommended salt length for DeriveKey.
	SaltSize = 16
)

// ErrDecrypt is returned when ciphertext fails authentication, which in
// practice means a wrong key or tampered data.
var ErrDecrypt = errors.New("decryption failed")

// DeriveKey stretches a passphrase into a KeySize key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

// NewSalt returns SaltSize random bytes.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

// Seal encrypts plaintext with AES-GCM under key using a fresh random nonce.
// additional is authenticated but not encrypted; pass the same value to Open.
func Seal(key, plaintext, additional []byte) (ciphertext, nonce []byte, err error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nil, nonce, plaintext, additional), nonce, nil
}

// Open reverses Seal.
func Open(key, nonce, ciphertext, additional []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, ErrDecrypt
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, additional)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
