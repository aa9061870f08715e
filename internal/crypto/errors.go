package crypto

import "errors"

// ErrMalformedPasswordHash is returned by [PasswordHasher.Verify] when the
// stored value is not a valid "saltHex:keyHex" string. It signals data
// corruption in the credential store, never a wrong password.
var ErrMalformedPasswordHash = errors.New("malformed password hash")
