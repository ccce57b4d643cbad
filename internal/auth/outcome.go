package auth

import "github.com/dmitrijs2005/credseal/internal/credentials"

// Status is the coarse result of a login attempt.
type Status int

const (
	StatusInvalidCredentials Status = iota
	StatusSuccess
	StatusStorageError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusInvalidCredentials:
		return "invalid_credentials"
	case StatusStorageError:
		return "storage_error"
	default:
		return "unknown"
	}
}

// Outcome is returned by VerifyLogin. Record and Method are set only on
// success; Err only for StatusStorageError. Callers must show one message
// for every StatusInvalidCredentials.
type Outcome struct {
	Status Status
	Record *credentials.Record
	Method string
	Err    error
}

func (o Outcome) OK() bool { return o.Status == StatusSuccess }
