package password

import "errors"

// ErrInvalidFormat reports a hash string that is not a well-formed,
// supported Argon2id PHC string. It is distinct from a mismatch, which
// Verify reports as (false, nil).
var ErrInvalidFormat = errors.New("invalid password hash format")
