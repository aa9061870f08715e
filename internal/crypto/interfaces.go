package crypto

// PasswordHasher derives and verifies password hashes for credential storage.
// It knows nothing about users, storage or transport. Plaintext passwords
// never leave this package in any derived form other than the encoded hash.
type PasswordHasher interface {
	// Hash derives a salted hash from the plaintext password and returns it
	// in the storable "saltHex:keyHex" form. A fresh random salt is drawn
	// for every call, so two hashes of the same password differ.
	Hash(password string) (string, error)

	// Verify recomputes the hash of password against the salt embedded in
	// encoded and compares the result in constant time. It reports whether
	// the password matches. An error is returned only when encoded is not
	// a well-formed "saltHex:keyHex" value.
	Verify(password, encoded string) (bool, error)

	// DummyHash returns a fixed, well-formed encoded hash of a random
	// throwaway password. Callers verify against it when no real stored
	// hash exists, so that the failure path costs the same as a real
	// verification.
	DummyHash() string
}
