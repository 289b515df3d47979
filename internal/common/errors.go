// Package common defines shared constants and sentinel errors used across
// the vault and cache layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Validation errors.
	ErrorInvalidArgument = errors.New("invalid argument")
	ErrorInvalidSetting  = errors.New("setting value must be a JSON scalar")

	// Configuration errors.
	ErrorUnknownBackend = errors.New("unknown backend")
)
