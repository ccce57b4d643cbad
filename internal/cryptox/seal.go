package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"unicode/utf8"
)

const KeySize = 32

// Key is a named AES-256 key.
type Key struct {
	ID    string
	Bytes []byte
}

// Sealer encrypts and decrypts values under one key. It holds only
// immutable state and is safe for concurrent use.
type Sealer struct {
	keyID string
	aead  cipher.AEAD
}

// Unsealed is the result of a successful Unseal.
type Unsealed struct {
	Plaintext string
	Format    Format
	// KeyID is the id recorded in the blob, or the sealer's id for bare blobs.
	KeyID string
	// KeyIDMismatch is set when the blob names a different key id than the
	// sealer's. Decryption still succeeded, so this is informational.
	KeyIDMismatch bool
}

// NewSealer validates key and prepares an AES-256-GCM instance for it.
func NewSealer(key Key) (*Sealer, error) {
	if len(key.Bytes) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key.Bytes)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, err
	}

	return &Sealer{keyID: key.ID, aead: aead}, nil
}

// KeyID returns the id written into newly sealed blobs.
func (s *Sealer) KeyID() string {
	return s.keyID
}

// Seal encrypts plaintext under a fresh random nonce and returns
// keyId:base64(nonce‖tag‖ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	// GCM appends the tag to the ciphertext; storage wants it in front.
	out := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	split := len(out) - TagSize

	env := &Envelope{
		Format:     FormatKeyed,
		KeyID:      s.keyID,
		Nonce:      nonce,
		Tag:        out[split:],
		Ciphertext: out[:split],
	}

	return env.String(), nil
}

// Unseal parses blob and, for encrypted forms, authenticates and decrypts
// it. No plaintext is returned unless the tag verified.
func (s *Sealer) Unseal(blob string) (*Unsealed, error) {
	env, err := ParseEnvelope(blob)
	if err != nil {
		return nil, err
	}

	if env.Format == FormatPlain {
		if !utf8.Valid(env.Ciphertext) {
			return nil, ErrMalformedBlob
		}
		return &Unsealed{Plaintext: string(env.Ciphertext), Format: FormatPlain}, nil
	}

	sealed := make([]byte, 0, len(env.Ciphertext)+TagSize)
	sealed = append(sealed, env.Ciphertext...)
	sealed = append(sealed, env.Tag...)

	plain, err := s.aead.Open(nil, env.Nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	if !utf8.Valid(plain) {
		return nil, ErrMalformedBlob
	}

	res := &Unsealed{Plaintext: string(plain), Format: env.Format, KeyID: env.KeyID}
	if env.Format == FormatBare {
		res.KeyID = s.keyID
	} else if env.KeyID != s.keyID {
		res.KeyIDMismatch = true
	}

	return res, nil
}

// DeriveDevKey turns a seed phrase into a 32-byte key. It exists only for
// development fallbacks and must never back production credentials.
func DeriveDevKey(seed string) []byte {
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}
