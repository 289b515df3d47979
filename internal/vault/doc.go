// Package vault stores one authentication token per identity in a secure
// credential store.
//
// # Overview
//
// A Vault is bound to a service namespace and a Backend. Every operation
// goes straight to the backend; nothing is cached in process and the vault
// takes no locks of its own, so atomicity for a (service, identity) pair is
// whatever the backend provides.
//
// # Backends
//
//   - KeyringBackend: the host OS credential store (Keychain, Credential
//     Manager, Secret Service) via github.com/zalando/go-keyring.
//   - FileBackend: an AES-GCM encrypted JSON file keyed by a passphrase.
//   - MemoryBackend: an in-process map for tests.
//
// # Errors
//
// A missing secret is not an error: Retrieve reports it through its bool
// result and Delete treats it as success. Invalid identities or service
// names yield ErrInvalidHandle; backend failures are returned as
// *OperationError. Neither ever carries the secret value.
//
// Typical usage
//
//	v, _ := vault.New("empire-desktop", vault.NewKeyringBackend(), logger)
//	_ = v.Store(ctx, userID, jwt)
//	token, ok, err := v.Retrieve(ctx, userID)
package vault
