package vault

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jb-empire/empire-desktop/internal/logging"
)

const testSecret = "eyJhbGciOiJIUzI1NiJ9.c2VjcmV0.c2ln"

type failingBackend struct {
	err error
}

func (f failingBackend) Set(string, string, string) error    { return f.err }
func (f failingBackend) Get(string, string) (string, error) { return "", f.err }
func (f failingBackend) Delete(string, string) error        { return f.err }

func newTestVault(t *testing.T, b Backend) (*Vault, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	v, err := New("empire-desktop-test", b, logger)
	require.NoError(t, err)
	return v, &buf
}

func TestNew_InvalidHandle(t *testing.T) {
	_, err := New("", NewMemoryBackend(), nil)
	require.ErrorIs(t, err, ErrInvalidHandle)

	_, err = New("svc", nil, nil)
	require.ErrorIs(t, err, ErrInvalidHandle)

	v, err := New("svc", NewMemoryBackend(), nil)
	require.NoError(t, err)
	assert.Equal(t, "svc", v.Service())
}

func TestStoreRetrieve_RoundTrip(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, "user-1", testSecret))

	got, ok, err := v.Retrieve(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, testSecret, got)
}

func TestRetrieve_NeverStoredIsAbsent(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	got, ok, err := v.Retrieve(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, got)

	exists, err := v.Exists(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStore_OverwritesWithoutHistory(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, "u", "s1"))
	require.NoError(t, v.Store(ctx, "u", "s2"))

	got, ok, err := v.Retrieve(ctx, "u")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "s2", got)
}

func TestDelete_IsIdempotent(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, v.Delete(ctx, "never-stored"))

	require.NoError(t, v.Store(ctx, "u", "s"))
	require.NoError(t, v.Delete(ctx, "u"))
	require.NoError(t, v.Delete(ctx, "u"))

	exists, err := v.Exists(ctx, "u")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestIdentitiesAndServicesAreIsolated(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	a, err := New("svc-a", backend, nil)
	require.NoError(t, err)
	b, err := New("svc-b", backend, nil)
	require.NoError(t, err)

	require.NoError(t, a.Store(ctx, "alice", "token-a"))
	require.NoError(t, a.Store(ctx, "bob", "token-b"))

	_, ok, err := b.Retrieve(ctx, "alice")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, a.Delete(ctx, "alice"))
	got, ok, err := a.Retrieve(ctx, "bob")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "token-b", got)
}

func TestEmptyArguments(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	require.ErrorIs(t, v.Store(ctx, "", "s"), ErrInvalidHandle)
	require.ErrorIs(t, v.Store(ctx, "u", ""), ErrEmptySecret)
	_, _, err := v.Retrieve(ctx, "")
	require.ErrorIs(t, err, ErrInvalidHandle)
	require.ErrorIs(t, v.Delete(ctx, ""), ErrInvalidHandle)
	_, err = v.Exists(ctx, "")
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestBackendFailuresAreOperationErrors(t *testing.T) {
	cause := errors.New("access denied")
	v, _ := newTestVault(t, failingBackend{err: cause})
	ctx := context.Background()

	tests := []struct {
		op   Op
		call func() error
		msg  string
	}{
		{OpStore, func() error { return v.Store(ctx, "u", testSecret) }, "failed to store secret in keychain: access denied"},
		{OpRetrieve, func() error { _, _, err := v.Retrieve(ctx, "u"); return err }, "failed to retrieve secret from keychain: access denied"},
		{OpDelete, func() error { return v.Delete(ctx, "u") }, "failed to delete secret from keychain: access denied"},
		{OpExists, func() error { _, err := v.Exists(ctx, "u"); return err }, "failed to check secret in keychain: access denied"},
	}
	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			err := tt.call()
			var opErr *OperationError
			require.ErrorAs(t, err, &opErr)
			assert.Equal(t, tt.op, opErr.Op)
			assert.Equal(t, "u", opErr.Identity)
			assert.ErrorIs(t, err, cause)
			assert.Equal(t, tt.msg, err.Error())
			assert.NotContains(t, err.Error(), testSecret)
		})
	}
}

func TestWrappedNotFoundIsAbsence(t *testing.T) {
	v, _ := newTestVault(t, failingBackend{err: fmt.Errorf("lookup: %w", ErrNotFound)})
	ctx := context.Background()

	_, ok, err := v.Retrieve(ctx, "u")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, v.Delete(ctx, "u"))
}

func TestAuditLogNeverContainsSecret(t *testing.T) {
	v, buf := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, "alice", testSecret))
	_, _, err := v.Retrieve(ctx, "alice")
	require.NoError(t, err)
	_, err = v.Exists(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, v.Delete(ctx, "alice"))

	out := buf.String()
	for _, want := range []string{
		`msg="secret stored"`, "op=store",
		`msg="secret retrieved"`, "op=retrieve",
		`msg="secret presence checked"`, "op=exists",
		`msg="secret deleted"`, "op=delete",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 2, strings.Count(out, "present=true"))
	assert.Contains(t, out, "identity=alice")
	assert.Contains(t, out, "service=empire-desktop-test")
	assert.NotContains(t, out, testSecret)
}

func TestExistsIsAuditedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Output: &buf})
	require.NoError(t, err)
	v, err := New("empire-desktop-test", NewMemoryBackend(), logger)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, v.Store(ctx, "alice", testSecret))
	buf.Reset()

	ok, err := v.Exists(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, buf.String(), "op=exists")
	assert.Contains(t, buf.String(), "present=true")

	buf.Reset()
	ok, err = v.Exists(ctx, "bob")
	require.NoError(t, err)
	require.False(t, ok)
	assert.Contains(t, buf.String(), "present=false")
	assert.NotContains(t, buf.String(), testSecret)
}

func TestConcurrentIdentities(t *testing.T) {
	v, _ := newTestVault(t, NewMemoryBackend())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", i)
			assert.NoError(t, v.Store(ctx, id, "tok-"+id))
			got, ok, err := v.Retrieve(ctx, id)
			assert.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok-"+id, got)
		}(i)
	}
	wg.Wait()
}
