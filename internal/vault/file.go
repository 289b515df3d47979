package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/jb-empire/empire-desktop/internal/common"
	"github.com/jb-empire/empire-desktop/internal/cryptox"
	"github.com/jb-empire/empire-desktop/internal/filex"
)

const fileFormatVersion = 1

type sealedSecret struct {
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

type vaultFile struct {
	Version int                                `json:"version"`
	Salt    []byte                             `json:"salt"`
	Entries map[string]map[string]sealedSecret `json:"entries"`
}

// FileBackend keeps secrets in a single JSON file, each sealed with
// AES-GCM under a key derived from a passphrase. Writes replace the file
// atomically. The mutex serializes read-modify-write cycles within one
// process; separate processes sharing a file are not coordinated.
type FileBackend struct {
	path       string
	passphrase []byte

	mu      sync.Mutex
	keySalt []byte
	key     []byte
}

// NewFileBackend returns a backend persisting to path. The file is created
// on the first Set.
func NewFileBackend(path string, passphrase []byte) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty vault file path", common.ErrorInvalidArgument)
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("%w: empty vault passphrase", common.ErrorInvalidArgument)
	}
	return &FileBackend{path: path, passphrase: bytes.Clone(passphrase)}, nil
}

func (f *FileBackend) Set(service, user, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		doc = &vaultFile{Version: fileFormatVersion, Salt: cryptox.NewSalt()}
	} else if err != nil {
		return err
	}
	if doc.Entries == nil {
		doc.Entries = make(map[string]map[string]sealedSecret)
	}

	ct, nonce, err := cryptox.Seal(f.keyFor(doc.Salt), []byte(secret), additionalData(service, user))
	if err != nil {
		return fmt.Errorf("seal secret: %w", err)
	}
	if doc.Entries[service] == nil {
		doc.Entries[service] = make(map[string]sealedSecret)
	}
	doc.Entries[service][user] = sealedSecret{Nonce: nonce, Ciphertext: ct}

	return f.save(doc)
}

func (f *FileBackend) Get(service, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	sealed, ok := doc.Entries[service][user]
	if !ok {
		return "", ErrNotFound
	}
	plaintext, err := cryptox.Open(f.keyFor(doc.Salt), sealed.Nonce, sealed.Ciphertext, additionalData(service, user))
	if err != nil {
		return "", fmt.Errorf("open secret: %w", err)
	}
	return string(plaintext), nil
}

func (f *FileBackend) Delete(service, user string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.load()
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, ok := doc.Entries[service][user]; !ok {
		return ErrNotFound
	}
	delete(doc.Entries[service], user)
	if len(doc.Entries[service]) == 0 {
		delete(doc.Entries, service)
	}
	return f.save(doc)
}

// keyFor derives the key for salt, reusing the last derivation when the
// salt has not changed.
func (f *FileBackend) keyFor(salt []byte) []byte {
	if f.key == nil || !bytes.Equal(f.keySalt, salt) {
		f.key = cryptox.DeriveKey(f.passphrase, salt)
		f.keySalt = bytes.Clone(salt)
	}
	return f.key
}

func (f *FileBackend) load() (*vaultFile, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	var doc vaultFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode vault file: %w", err)
	}
	if doc.Version != fileFormatVersion {
		return nil, fmt.Errorf("unsupported vault file version %d", doc.Version)
	}
	if len(doc.Salt) == 0 {
		return nil, errors.New("vault file has no salt")
	}
	return &doc, nil
}

func (f *FileBackend) save(doc *vaultFile) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode vault file: %w", err)
	}

	return filex.WriteFileAtomic(f.path, data, 0o600)
}

// additionalData binds a ciphertext to its (service, user) slot so sealed
// values cannot be swapped between entries.
func additionalData(service, user string) []byte {
	return []byte(service + "\x00" + user)
}
