package vault

import "sync"

type memoryKey struct {
	service string
	user    string
}

// MemoryBackend keeps secrets in process memory. It is safe for concurrent
// use.
type MemoryBackend struct {
	mu      sync.RWMutex
	secrets map[memoryKey]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{secrets: make(map[memoryKey]string)}
}

func (m *MemoryBackend) Set(service, user, secret string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[memoryKey{service, user}] = secret
	return nil
}

func (m *MemoryBackend) Get(service, user string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	secret, ok := m.secrets[memoryKey{service, user}]
	if !ok {
		return "", ErrNotFound
	}
	return secret, nil
}

func (m *MemoryBackend) Delete(service, user string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := memoryKey{service, user}
	if _, ok := m.secrets[k]; !ok {
		return ErrNotFound
	}
	delete(m.secrets, k)
	return nil
}
