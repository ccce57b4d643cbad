// Package keys resolves the process-wide secrets used to protect stored
// credentials: the pepper, the AES-256 sealing key and its id, and the
// Argon2id cost parameters. They are loaded once at startup and never
// change afterwards.
package keys

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrijs2005/credseal/internal/common"
	"github.com/dmitrijs2005/credseal/internal/cryptox"
	"github.com/dmitrijs2005/credseal/internal/password"
)

const reservedKeyID = "plain"

// KeyMaterial is immutable after construction. Accessors hand out copies so
// callers cannot mutate shared secrets.
type KeyMaterial struct {
	pepper string
	key    []byte
	keyID  string
	params password.Params
}

// New validates its inputs and builds KeyMaterial. key must already be
// exactly 32 bytes; normalization happens in Load, never at use time.
func New(pepper string, key []byte, keyID string, params password.Params) (*KeyMaterial, error) {
	if pepper == "" {
		return nil, fmt.Errorf("%w: pepper is empty", common.ErrConfiguration)
	}
	if len(key) != cryptox.KeySize {
		return nil, fmt.Errorf("%w: sealing key must be %d bytes, got %d", common.ErrConfiguration, cryptox.KeySize, len(key))
	}
	if err := ValidateKeyID(keyID); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}

	return &KeyMaterial{
		pepper: pepper,
		key:    append([]byte(nil), key...),
		keyID:  keyID,
		params: params,
	}, nil
}

// ValidateKeyID rejects ids that would make a sealed blob ambiguous.
func ValidateKeyID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: key id is empty", common.ErrConfiguration)
	case strings.Contains(id, ":"):
		return fmt.Errorf("%w: key id %q contains ':'", common.ErrConfiguration, id)
	case id == reservedKeyID:
		return fmt.Errorf("%w: key id %q is reserved", common.ErrConfiguration, id)
	}
	return nil
}

func (m *KeyMaterial) Pepper() string { return m.pepper }

func (m *KeyMaterial) KeyID() string { return m.keyID }

func (m *KeyMaterial) Params() password.Params { return m.params }

// SealingKey returns a copy of the key for building a cryptox.Sealer.
func (m *KeyMaterial) SealingKey() cryptox.Key {
	return cryptox.Key{ID: m.keyID, Bytes: append([]byte(nil), m.key...)}
}

// String never includes the pepper or key bytes.
func (m *KeyMaterial) String() string {
	return fmt.Sprintf("KeyMaterial{keyID=%s pepper=***(%d) key=***(%d) m=%d t=%d p=%d}",
		m.keyID, len(m.pepper), len(m.key), m.params.MemoryKiB, m.params.Iterations, m.params.Parallelism)
}

func (m *KeyMaterial) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("key_id", m.keyID),
		slog.Bool("pepper_set", m.pepper != ""),
		slog.Int("key_len", len(m.key)),
		slog.Any("argon_memory_kib", m.params.MemoryKiB),
		slog.Any("argon_time_cost", m.params.Iterations),
		slog.Any("argon_parallelism", m.params.Parallelism),
	)
}
