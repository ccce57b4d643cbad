package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/logging"
)

// Resolver queries its adapters in order and returns the first hit, so the
// primary schema wins when both hold the same username.
type Resolver struct {
	adapters []Adapter
	log      logging.Logger
}

func NewResolver(logger logging.Logger, adapters ...Adapter) *Resolver {
	return &Resolver{adapters: adapters, log: logger.With("module", "resolver")}
}

// Resolve returns the record for username or common.ErrorNotFound. A schema
// whose table does not exist counts as not containing the user. Any other
// storage error is returned wrapped.
func (r *Resolver) Resolve(ctx context.Context, username string) (*Record, error) {
	for _, a := range r.adapters {
		rec, err := a.Fetch(ctx, username)
		switch {
		case err == nil:
			return rec, nil
		case errors.Is(err, common.ErrorNotFound):
			continue
		case errors.Is(err, common.ErrSchemaUnavailable):
			r.log.Debug(ctx, "schema not present, skipping", "schema", a.Schema().String())
			continue
		default:
			return nil, fmt.Errorf("%s lookup: %w", a.Schema(), err)
		}
	}

	return nil, common.ErrorNotFound
}
