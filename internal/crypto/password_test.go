package crypto

import (
	"strings"
	"testing"
)

// Low iteration count keeps the test suite fast; the KDF itself does not
// change behavior with the work factor.
const testIterations = 1_000

func TestHash_FormatAndSaltRandomness(t *testing.T) {
	hasher, err := NewPasswordHasher(testIterations)
	if err != nil {
		t.Fatalf("NewPasswordHasher error: %v", err)
	}

	h1, err := hasher.Hash("s3cret-Password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	h2, err := hasher.Hash("s3cret-Password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	parts := strings.Split(h1, ":")
	if len(parts) != 2 {
		t.Fatalf("hash format = %q, want saltHex:keyHex", h1)
	}
	if len(parts[0]) != 32 {
		t.Fatalf("salt hex length = %d, want 32", len(parts[0]))
	}
	if len(parts[1]) != 128 {
		t.Fatalf("key hex length = %d, want 128", len(parts[1]))
	}

	if h1 == h2 {
		t.Fatalf("expected different hashes for same password, got identical")
	}
}

func TestVerify_MatchAndMismatch(t *testing.T) {
	hasher, err := NewPasswordHasher(testIterations)
	if err != nil {
		t.Fatalf("NewPasswordHasher error: %v", err)
	}

	encoded, err := hasher.Hash("Correct-Horse-1")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := hasher.Verify("Correct-Horse-1", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !ok {
		t.Fatalf("expected correct password to verify")
	}

	ok, err = hasher.Verify("Wrong-Horse-1", encoded)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	hasher, err := NewPasswordHasher(testIterations)
	if err != nil {
		t.Fatalf("NewPasswordHasher error: %v", err)
	}

	malformed := []string{
		"",
		"no-colon",
		"nothex:abcdef",
		"abcdef:nothex",
		"abcdef:",
	}

	for _, encoded := range malformed {
		ok, err := hasher.Verify("whatever", encoded)
		if err == nil {
			t.Fatalf("Verify(%q) expected error, got nil", encoded)
		}
		if ok {
			t.Fatalf("Verify(%q) expected no match", encoded)
		}
	}
}

func TestDummyHash_VerifiableShape(t *testing.T) {
	hasher, err := NewPasswordHasher(testIterations)
	if err != nil {
		t.Fatalf("NewPasswordHasher error: %v", err)
	}

	dummy := hasher.DummyHash()
	if dummy == "" {
		t.Fatalf("expected non-empty dummy hash")
	}

	// The dummy must be well-formed so Verify burns the full KDF cost
	// instead of bailing out on a parse error.
	ok, err := hasher.Verify("any-password", dummy)
	if err != nil {
		t.Fatalf("Verify against dummy error: %v", err)
	}
	if ok {
		t.Fatalf("expected no password to match the dummy hash")
	}

	if hasher.DummyHash() != dummy {
		t.Fatalf("expected DummyHash to be stable across calls")
	}
}
