package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argon2Version = argon2.Version // 0x13 (19)

	// Marker is the prefix of every hash this package produces.
	Marker = "$argon2id$"

	DefaultSaltLength = 16
	DefaultKeyLength  = 32
)

// Hard ceilings for parameters read back from stored hashes. A stored hash
// is attacker-influenced input and must not make Verify allocate unbounded
// memory or spin forever.
const (
	maxMemoryKiB  = 4 * 1024 * 1024
	maxIterations = 64
)

// Params controls Argon2id cost. MemoryKiB is in KiB as required by argon2.IDKey.
type Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams mirrors the deployed PHP configuration: 128 MiB, 3 passes,
// 2 lanes, 16-byte salt, 32-byte digest.
func DefaultParams() Params {
	return Params{
		MemoryKiB:   1 << 17,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  DefaultSaltLength,
		KeyLength:   DefaultKeyLength,
	}
}

// Validate checks that p can be used for hashing.
func (p Params) Validate() error {
	if p.Iterations == 0 || p.Iterations > maxIterations {
		return fmt.Errorf("argon2 time cost %d out of range [1..%d]", p.Iterations, maxIterations)
	}
	if p.Parallelism == 0 {
		return fmt.Errorf("argon2 parallelism must be positive")
	}
	if p.MemoryKiB < 8*uint32(p.Parallelism) || p.MemoryKiB > maxMemoryKiB {
		return fmt.Errorf("argon2 memory cost %d KiB out of range [%d..%d]", p.MemoryKiB, 8*uint32(p.Parallelism), maxMemoryKiB)
	}
	if p.SaltLength < 8 || p.SaltLength > 64 {
		return fmt.Errorf("argon2 salt length %d out of range [8..64]", p.SaltLength)
	}
	if p.KeyLength < 16 || p.KeyLength > 128 {
		return fmt.Errorf("argon2 key length %d out of range [16..128]", p.KeyLength)
	}
	return nil
}

// Hasher hashes and verifies peppered passwords. The zero value is ready
// to use; it holds no state, cost parameters are passed per call.
type Hasher struct{}

// Hash returns an encoded Argon2id hash of peppered using a fresh random salt.
func (Hasher) Hash(peppered string, p Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := argon2.IDKey([]byte(peppered), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	b64 := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Version,
		p.MemoryKiB,
		p.Iterations,
		p.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify checks whether peppered matches encoded.
// Returns (true, nil) for a match, (false, nil) for a mismatch,
// and (false, ErrInvalidFormat) for malformed or unsupported hashes.
func (Hasher) Verify(encoded, peppered string) (bool, error) {
	p, salt, expected, err := decode(encoded)
	if err != nil {
		return false, err
	}

	key := argon2.IDKey([]byte(peppered), salt, p.Iterations, p.MemoryKiB, p.Parallelism, p.KeyLength)

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

// IsArgon2id reports whether s carries the Argon2id marker. It says nothing
// about whether the rest of the string is well formed.
func IsArgon2id(s string) bool {
	return strings.HasPrefix(s, Marker)
}

// decode parses an encoded hash into its parameters, salt and digest.
func decode(encoded string) (Params, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return Params{}, nil, nil, ErrInvalidFormat
	}

	if parts[2] != "v="+strconv.Itoa(argon2Version) {
		return Params{}, nil, nil, ErrInvalidFormat
	}

	mem, it, par, err := parseCost(parts[3])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidFormat
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidFormat
	}
	hash, err := b64.DecodeString(parts[5])
	if err != nil {
		return Params{}, nil, nil, ErrInvalidFormat
	}

	p := Params{
		MemoryKiB:   mem,
		Iterations:  it,
		Parallelism: par,
		SaltLength:  uint32(len(salt)),
		KeyLength:   uint32(len(hash)),
	}
	if err := p.Validate(); err != nil {
		return Params{}, nil, nil, ErrInvalidFormat
	}

	return p, salt, hash, nil
}

// parseCost parses "m=<n>,t=<n>,p=<n>" in that exact order.
func parseCost(s string) (mem, it uint32, par uint8, err error) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return 0, 0, 0, ErrInvalidFormat
	}

	vals := make([]uint64, 3)
	for i, name := range []string{"m=", "t=", "p="} {
		v, ok := strings.CutPrefix(fields[i], name)
		if !ok {
			return 0, 0, 0, ErrInvalidFormat
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, 0, 0, ErrInvalidFormat
		}
		vals[i] = n
	}
	if vals[2] == 0 || vals[2] > 255 {
		return 0, 0, 0, ErrInvalidFormat
	}

	return uint32(vals[0]), uint32(vals[1]), uint8(vals[2]), nil
}
