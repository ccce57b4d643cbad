// Package common defines shared sentinel errors and small helpers used across
// credseal components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound        = errors.New("not found")
	ErrorAlreadyExists   = errors.New("already exists")
	ErrSchemaUnavailable = errors.New("schema unavailable")

	// Startup errors. Anything wrapping ErrConfiguration must abort initialization.
	ErrConfiguration = errors.New("configuration error")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")
)
