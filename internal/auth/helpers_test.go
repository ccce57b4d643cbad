package auth

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/credentials"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/keys"
	"github.com/dmitrijs2005/credseal/internal/password"
)

const testPepper = "pep"

func cheapParams() password.Params {
	p := password.DefaultParams()
	p.MemoryKiB, p.Iterations, p.Parallelism = 64, 1, 1
	return p
}

func testKM(t *testing.T, keyID string, fill byte) *keys.KeyMaterial {
	t.Helper()
	km, err := keys.New(testPepper, bytes.Repeat([]byte{fill}, 32), keyID, cheapParams())
	require.NoError(t, err)
	return km
}

// memResolver is an in-memory credential store.
type memResolver struct {
	mu      sync.Mutex
	records map[string]*credentials.Record
	err     error
}

func newMemResolver() *memResolver {
	return &memResolver{records: map[string]*credentials.Record{}}
}

func (m *memResolver) put(rec *credentials.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.Username] = rec
}

func (m *memResolver) Resolve(_ context.Context, username string) (*credentials.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *rec
	return &c, nil
}

// countingHasher wraps password.Hasher and records call counts and the
// highest number of calls in flight at once.
type countingHasher struct {
	inner    password.Hasher
	delay    time.Duration
	hashes   atomic.Int32
	verifies atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (c *countingHasher) enter() func() {
	n := c.inFlight.Add(1)
	for {
		m := c.maxSeen.Load()
		if n <= m || c.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	return func() { c.inFlight.Add(-1) }
}

func (c *countingHasher) Hash(peppered string, p password.Params) (string, error) {
	defer c.enter()()
	c.hashes.Add(1)
	return c.inner.Hash(peppered, p)
}

func (c *countingHasher) Verify(encoded, peppered string) (bool, error) {
	defer c.enter()()
	c.verifies.Add(1)
	return c.inner.Verify(encoded, peppered)
}

// sealRaw seals an arbitrary stored value under km, bypassing hashing.
func sealRaw(t *testing.T, km *keys.KeyMaterial, value string) string {
	t.Helper()
	s, err := cryptox.NewSealer(km.SealingKey())
	require.NoError(t, err)
	blob, err := s.Seal(value)
	require.NoError(t, err)
	return blob
}

func hashWith(t *testing.T, pw string, style password.Style) string {
	t.Helper()
	h, err := password.Hasher{}.Hash(password.Pepper(pw, testPepper, style), cheapParams())
	require.NoError(t, err)
	return h
}

var errStorage = errors.New("connection refused")
