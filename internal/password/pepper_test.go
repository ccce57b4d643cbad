package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPepper(t *testing.T) {
	const secret = "s3cr3t-pepper"

	assert.Equal(t, "abc:"+secret, Pepper("abc", secret, StyleColon))
	assert.Equal(t, "abc"+secret, Pepper("abc", secret, StyleDirect))

	// deterministic: same input, same output
	assert.Equal(t, Pepper("abc", secret, StyleColon), Pepper("abc", secret, StyleColon))
	assert.Equal(t, Pepper("abc", secret, StyleDirect), Pepper("abc", secret, StyleDirect))
}

func TestPepper_EmptyInputs(t *testing.T) {
	assert.Equal(t, ":", Pepper("", "", StyleColon))
	assert.Equal(t, "", Pepper("", "", StyleDirect))
	assert.Equal(t, "pw:", Pepper("pw", "", StyleColon))
}

func TestTrialOrder(t *testing.T) {
	assert.Equal(t, []Style{StyleColon, StyleDirect}, TrialOrder)
}

func TestStyle_String(t *testing.T) {
	assert.Equal(t, "colon", StyleColon.String())
	assert.Equal(t, "direct", StyleDirect.String())
	assert.Equal(t, "unknown", Style(42).String())
}
