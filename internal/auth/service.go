// Package auth verifies login attempts against stored sealed credentials and
// creates new sealed credentials.
package auth

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/credentials"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/keys"
	"github.com/dmitrijs2005/credseal/internal/logging"
	"github.com/dmitrijs2005/credseal/internal/password"
)

var ErrEmptyPassword = errors.New("password is empty")

// Resolver finds the stored credential for a username.
type Resolver interface {
	Resolve(ctx context.Context, username string) (*credentials.Record, error)
}

// PasswordHasher is satisfied by password.Hasher.
type PasswordHasher interface {
	Hash(peppered string, p password.Params) (string, error)
	Verify(encoded, peppered string) (bool, error)
}

// Option configures a Service.
type Option func(*Service)

// WithConcurrency caps simultaneous Argon2id computations. Each one holds
// MemoryKiB of RAM for its duration.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithMetrics records verification outcomes and hash timings into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTrials replaces DefaultTrials. Order matters: the first match wins.
func WithTrials(trials []Trial) Option {
	return func(s *Service) { s.trials = trials }
}

// WithHasher swaps the Argon2id implementation.
func WithHasher(h PasswordHasher) Option {
	return func(s *Service) { s.hasher = h }
}

// Service is safe for concurrent use. Its only mutable state is the lazily
// built decoy hash, guarded by a sync.Once.
type Service struct {
	km       *keys.KeyMaterial
	resolver Resolver
	sealer   *cryptox.Sealer
	hasher   PasswordHasher
	trials   []Trial
	metrics  *Metrics
	log      logging.Logger

	concurrency int
	sem         *semaphore.Weighted

	decoyOnce sync.Once
	decoy     string
}

// NewService builds a Service around km. It fails with ErrConfiguration if
// the sealing key is unusable.
func NewService(km *keys.KeyMaterial, resolver Resolver, logger logging.Logger, opts ...Option) (*Service, error) {
	sealer, err := cryptox.NewSealer(km.SealingKey())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	s := &Service{
		km:          km,
		resolver:    resolver,
		sealer:      sealer,
		hasher:      password.Hasher{},
		trials:      DefaultTrials(),
		log:         logger.With("module", "auth"),
		concurrency: 1,
	}
	for _, o := range opts {
		o(s)
	}
	s.sem = semaphore.NewWeighted(int64(s.concurrency))

	return s, nil
}

// KeyID is the key id written into credentials created by this service.
func (s *Service) KeyID() string {
	return s.sealer.KeyID()
}

// VerifyLogin checks candidate against the stored credential for username.
// It never tells an unknown user apart from a wrong password.
func (s *Service) VerifyLogin(ctx context.Context, username, candidate string) Outcome {
	log := s.log.With("attempt_id", uuid.NewString(), "username", username)

	out := s.verify(ctx, log, username, candidate)
	s.metrics.recordVerification(out.Status, out.Method)
	return out
}

func (s *Service) verify(ctx context.Context, log logging.Logger, username, candidate string) Outcome {
	rec, err := s.resolver.Resolve(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.runDecoy(ctx, candidate)
			log.Info(ctx, "login rejected", "reason", "unknown_user")
			return Outcome{Status: StatusInvalidCredentials}
		}
		log.Error(ctx, "credential lookup failed", "error", err)
		return Outcome{Status: StatusStorageError, Err: err}
	}

	log = log.With("schema", rec.Origin.String())

	unsealed, err := s.sealer.Unseal(rec.SealedHash)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, cryptox.ErrAuthenticationFailed) {
			reason = "authentication"
		}
		s.metrics.recordUnsealFailure(reason)
		log.Warn(ctx, "stored credential could not be unsealed",
			"reason", reason, "sealed_prefix", common.Prefix(rec.SealedHash, 12))
		s.runDecoy(ctx, candidate)
		return Outcome{Status: StatusInvalidCredentials}
	}

	if unsealed.KeyIDMismatch {
		log.Warn(ctx, "sealed credential key id differs from configured key",
			"stored_key_id", unsealed.KeyID, "configured_key_id", s.sealer.KeyID())
	}
	if unsealed.Format == cryptox.FormatPlain {
		log.Warn(ctx, "credential stored in deprecated plain form")
	}

	method, ok := s.match(ctx, log, unsealed.Plaintext, candidate)
	if !ok {
		log.Info(ctx, "login rejected", "reason", "mismatch")
		return Outcome{Status: StatusInvalidCredentials}
	}

	if method != s.trials[0].Name {
		log.Warn(ctx, "credential matched by deprecated method", "method", method)
	}
	log.Info(ctx, "login succeeded", "method", method, "is_admin", rec.IsAdmin)

	return Outcome{Status: StatusSuccess, Record: rec, Method: method}
}

// match runs the trial list against the unsealed hash. Argon2id trials only
// apply to values carrying the marker; legacy trials apply to everything
// else and to marked values that turn out to be malformed.
func (s *Service) match(ctx context.Context, log logging.Logger, stored, candidate string) (string, bool) {
	isArgon := password.IsArgon2id(stored)
	badFormat := false

	for _, t := range s.trials {
		peppered := password.Pepper(candidate, s.km.Pepper(), t.Style)

		if !t.Legacy {
			if !isArgon || badFormat {
				continue
			}
			ok, err := s.verifyHash(ctx, stored, peppered)
			if err != nil {
				log.Debug(ctx, "argon2id hash unreadable, trying legacy comparison", "error", err)
				badFormat = true
				continue
			}
			if ok {
				return t.Name, true
			}
			continue
		}

		if isArgon && !badFormat {
			continue
		}
		if legacyEqual(stored, peppered) {
			return t.Name, true
		}
	}

	return "", false
}

// CreateCredential peppers password with the colon style, hashes it with the
// configured cost and seals the result.
func (s *Service) CreateCredential(ctx context.Context, pw string) (string, error) {
	if pw == "" {
		return "", ErrEmptyPassword
	}

	peppered := password.Pepper(pw, s.km.Pepper(), password.TrialOrder[0])

	var hash string
	var err error
	s.withSlot(ctx, func() {
		hash, err = s.hasher.Hash(peppered, s.km.Params())
	})
	if err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}

	sealed, err := s.sealer.Seal(hash)
	if err != nil {
		return "", fmt.Errorf("seal: %w", err)
	}

	return sealed, nil
}

func (s *Service) verifyHash(ctx context.Context, encoded, peppered string) (ok bool, err error) {
	s.withSlot(ctx, func() {
		ok, err = s.hasher.Verify(encoded, peppered)
	})
	return ok, err
}

// withSlot runs fn while holding a hashing slot. Waiting ignores
// cancellation so a verification that has started always finishes.
func (s *Service) withSlot(ctx context.Context, fn func()) {
	_ = s.sem.Acquire(context.WithoutCancel(ctx), 1)
	defer s.sem.Release(1)

	start := time.Now()
	fn()
	s.metrics.observeHash(time.Since(start))
}

// runDecoy spends the same Argon2id work a wrong password against a real
// hash would: one verify per argon2id trial. Rejections of unknown users and
// unreadable rows then take comparable time.
func (s *Service) runDecoy(ctx context.Context, candidate string) {
	s.decoyOnce.Do(func() {
		var h string
		var err error
		s.withSlot(ctx, func() {
			h, err = s.hasher.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)), s.km.Params())
		})
		if err != nil {
			s.log.Error(ctx, "decoy hash unavailable", "error", err)
			return
		}
		s.decoy = h
	})
	if s.decoy == "" {
		return
	}

	for _, t := range s.trials {
		if t.Legacy {
			continue
		}
		peppered := password.Pepper(candidate, s.km.Pepper(), t.Style)
		_, _ = s.verifyHash(ctx, s.decoy, peppered)
	}
}
