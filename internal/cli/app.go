package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/credseal/internal/accounts"
	"github.com/dmitrijs2005/credseal/internal/auth"
	"github.com/dmitrijs2005/credseal/internal/config"
	"github.com/dmitrijs2005/credseal/internal/credentials"
	"github.com/dmitrijs2005/credseal/internal/keys"
	"github.com/dmitrijs2005/credseal/internal/logging"
	"github.com/dmitrijs2005/credseal/internal/repositories/repomanager"
)

// App holds everything a command needs. Fields are filled lazily: keygen
// needs none of them, migrate needs only the database.
type App struct {
	cfg    *config.Config
	logger logging.Logger

	db    *sql.DB
	repos repomanager.RepositoryManager

	registry *prometheus.Registry
	auth     *auth.Service
	accounts *accounts.Provisioner
}

func newApp(cfg *config.Config, stderr io.Writer) (*App, error) {
	logger, err := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return &App{cfg: cfg, logger: logger}, nil
}

func (a *App) openDB(ctx context.Context) error {
	if a.db != nil {
		return nil
	}

	repos, err := repomanager.NewRepositoryManager(a.cfg.DBDialect)
	if err != nil {
		return err
	}

	db, err := repomanager.Open(ctx, a.cfg.DBDialect, a.cfg.DatabaseDSN)
	if err != nil {
		return err
	}

	a.db, a.repos = db, repos
	return nil
}

// initAuth loads key material and builds the verification and provisioning
// services on top of the database.
func (a *App) initAuth(ctx context.Context) error {
	if a.auth != nil {
		return nil
	}
	if err := a.openDB(ctx); err != nil {
		return err
	}

	km, err := keys.Load(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}

	resolver := credentials.NewResolver(a.logger,
		credentials.NewPrimaryAdapter(a.repos.Primary(a.db), km.KeyID()),
		credentials.NewLegacyAdapter(a.repos.Legacy(a.db)),
	)

	a.registry = prometheus.NewRegistry()
	svc, err := auth.NewService(km, resolver, a.logger,
		auth.WithConcurrency(a.cfg.HashConcurrency),
		auth.WithMetrics(auth.NewMetrics(a.registry)),
	)
	if err != nil {
		return err
	}

	a.auth = svc
	a.accounts = accounts.NewProvisioner(a.db, a.repos, svc, a.logger)
	return nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// printMetrics writes the service's counters in a compact text form.
func (a *App) printMetrics(w io.Writer) {
	if a.registry == nil {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		fmt.Fprintf(w, "metrics unavailable: %v\n", err)
		return
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			pairs := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				pairs = append(pairs, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			name := mf.GetName()
			if len(pairs) > 0 {
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				lines = append(lines, fmt.Sprintf("%s_count %d", name, m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
