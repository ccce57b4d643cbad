package cryptox

import "errors"

var (
	ErrInvalidKey           = errors.New("cryptox: key must be exactly 32 bytes")
	ErrMalformedBlob        = errors.New("cryptox: malformed sealed blob")
	ErrAuthenticationFailed = errors.New("cryptox: authentication failed")
)
