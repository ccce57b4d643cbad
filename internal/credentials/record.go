// Package credentials resolves a username to a single normalized credential
// record across the primary and legacy schemas.
package credentials

import (
	"context"
	"fmt"
)

// Schema names the table family a record came from.
type Schema int

const (
	SchemaPrimary Schema = iota
	SchemaLegacy
)

func (s Schema) String() string {
	switch s {
	case SchemaPrimary:
		return "primary"
	case SchemaLegacy:
		return "legacy"
	default:
		return "unknown"
	}
}

// ParseSchema accepts the names produced by String.
func ParseSchema(s string) (Schema, error) {
	switch s {
	case "primary":
		return SchemaPrimary, nil
	case "legacy":
		return SchemaLegacy, nil
	}
	return 0, fmt.Errorf("unknown schema %q", s)
}

// Record is a credential normalized to one shape regardless of origin.
// SealedHash always carries its key id prefix unless the stored value was
// in the plain or bare legacy form.
type Record struct {
	ID         int64
	Username   string
	Email      string
	SealedHash string
	KeyID      string
	Origin     Schema
	Role       string
	IsAdmin    bool
	Active     bool
}

// Adapter looks a username up in one schema. Fetch returns
// common.ErrorNotFound when the schema has no such user and
// common.ErrSchemaUnavailable when the schema is absent from this database.
type Adapter interface {
	Schema() Schema
	Fetch(ctx context.Context, username string) (*Record, error)
}
