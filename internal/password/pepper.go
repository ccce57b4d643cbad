package password

// Style selects how the pepper is joined to the password.
type Style int

const (
	StyleColon Style = iota
	StyleDirect
)

// TrialOrder is the order in which styles are tried during verification.
// New credentials are only ever created with the first entry.
var TrialOrder = []Style{StyleColon, StyleDirect}

func (s Style) String() string {
	switch s {
	case StyleColon:
		return "colon"
	case StyleDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// Pepper combines password with the pepper secret using style.
func Pepper(password, secret string, style Style) string {
	if style == StyleDirect {
		return password + secret
	}
	return password + ":" + secret
}
