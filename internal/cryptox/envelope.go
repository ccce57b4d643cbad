package cryptox

import (
	"encoding/base64"
	"strings"
)

const (
	NonceSize = 12
	TagSize   = 16

	// MinPayload is the shortest authenticated payload: nonce and tag with
	// an empty ciphertext.
	MinPayload = NonceSize + TagSize

	plainPrefix = "plain:"
)

// Format identifies which of the accepted wire forms a blob used.
type Format int

const (
	FormatKeyed Format = iota
	FormatPlain
	FormatBare
)

func (f Format) String() string {
	switch f {
	case FormatKeyed:
		return "keyed"
	case FormatPlain:
		return "plain"
	case FormatBare:
		return "bare"
	default:
		return "unknown"
	}
}

// Envelope is a parsed sealed blob. For FormatPlain, Ciphertext holds the
// unencrypted bytes and Nonce and Tag are empty.
type Envelope struct {
	Format     Format
	KeyID      string
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// ParseEnvelope decodes blob without decrypting it.
func ParseEnvelope(blob string) (*Envelope, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil, ErrMalformedBlob
	}

	if rest, ok := strings.CutPrefix(blob, plainPrefix); ok {
		raw, err := base64.StdEncoding.DecodeString(rest)
		if err != nil {
			return nil, ErrMalformedBlob
		}
		return &Envelope{Format: FormatPlain, Ciphertext: raw}, nil
	}

	env := &Envelope{Format: FormatBare}
	payload := blob
	if keyID, rest, ok := strings.Cut(blob, ":"); ok {
		env.Format = FormatKeyed
		env.KeyID = keyID
		payload = rest
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrMalformedBlob
	}
	if len(raw) < MinPayload {
		return nil, ErrMalformedBlob
	}

	env.Nonce = raw[:NonceSize]
	env.Tag = raw[NonceSize:MinPayload]
	env.Ciphertext = raw[MinPayload:]

	return env, nil
}

// String renders the envelope in its persisted form.
func (e *Envelope) String() string {
	if e.Format == FormatPlain {
		return plainPrefix + base64.StdEncoding.EncodeToString(e.Ciphertext)
	}

	raw := make([]byte, 0, len(e.Nonce)+len(e.Tag)+len(e.Ciphertext))
	raw = append(raw, e.Nonce...)
	raw = append(raw, e.Tag...)
	raw = append(raw, e.Ciphertext...)

	enc := base64.StdEncoding.EncodeToString(raw)
	if e.Format == FormatBare {
		return enc
	}
	return e.KeyID + ":" + enc
}

// SplitKeyID separates a keyed blob into its key id and payload. Blobs with
// no key id return an empty id and the input unchanged.
func SplitKeyID(blob string) (keyID, payload string) {
	if strings.HasPrefix(blob, plainPrefix) {
		return "", blob
	}
	if id, rest, ok := strings.Cut(blob, ":"); ok {
		return id, rest
	}
	return "", blob
}

// HasKeyID reports whether blob already carries a key id prefix. Base64
// never contains ':', so any colon means a prefix is present.
func HasKeyID(blob string) bool {
	return strings.Contains(blob, ":")
}
