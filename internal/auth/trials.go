package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/credseal/internal/password"
)

// Trial is one way a stored hash may have been produced. Trials run in
// order and the first match wins.
type Trial struct {
	Name  string
	Style password.Style
	// Legacy trials compare the unsealed value to the peppered password
	// directly; they exist for rows written before hashing was introduced.
	Legacy bool
}

// DefaultTrials returns argon2id with each pepper style, then the
// deprecated unhashed comparisons.
func DefaultTrials() []Trial {
	trials := make([]Trial, 0, 2*len(password.TrialOrder))
	for _, st := range password.TrialOrder {
		trials = append(trials, Trial{Name: "argon2id/" + st.String(), Style: st})
	}
	for _, st := range password.TrialOrder {
		trials = append(trials, Trial{Name: "legacy/" + st.String(), Style: st, Legacy: true})
	}
	return trials
}

func legacyEqual(stored, peppered string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(peppered)) == 1
}
