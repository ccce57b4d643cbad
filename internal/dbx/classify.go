package dbx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/credseal/internal/common"
)

const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// Classify maps driver errors that callers branch on to common sentinels,
// keeping the driver error in the chain. Other errors are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable:
			return fmt.Errorf("%w: %w", common.ErrSchemaUnavailable, err)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
		}
		return err
	}

	// modernc.org/sqlite only exposes numeric result codes, which are shared by
	// several conditions; the message is the reliable part.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table"):
		return fmt.Errorf("%w: %w", common.ErrSchemaUnavailable, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", common.ErrorAlreadyExists, err)
	}

	return err
}
