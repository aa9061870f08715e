// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// passwordHasher is the private implementation of [PasswordHasher].
type passwordHasher struct {
	// PBKDF2 tuning parameters. Stored in the struct so the work factor
	// can be raised per deployment without touching call sites.
	iterations int
	saltLen    int
	keyLen     int

	// dummy is a precomputed valid hash of a random password, used by
	// DummyHash to equalize verification timing for unknown accounts.
	dummy string
}

// NewPasswordHasher constructs a [PasswordHasher] using PBKDF2-HMAC-SHA512
// with the given iteration count, a 16-byte random salt and a 64-byte
// derived key. Returns an error if the OS CSPRNG is unavailable.
func NewPasswordHasher(iterations int) (PasswordHasher, error) {
	h := &passwordHasher{
		iterations: iterations,
		saltLen:    16,
		keyLen:     sha512.Size,
	}

	throwaway := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, throwaway); err != nil {
		return nil, fmt.Errorf("generate dummy password: %w", err)
	}

	dummy, err := h.Hash(hex.EncodeToString(throwaway))
	if err != nil {
		return nil, fmt.Errorf("precompute dummy hash: %w", err)
	}
	h.dummy = dummy

	return h, nil
}

// Hash implements [PasswordHasher]. It draws a fresh salt from the OS
// CSPRNG, derives the key with PBKDF2-HMAC-SHA512 and encodes both parts
// as lowercase hex joined by a colon.
func (h *passwordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, h.keyLen, sha512.New)

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// Verify implements [PasswordHasher]. The derived key is compared with
// [subtle.ConstantTimeCompare] so that match and mismatch take the same
// time. Returns [ErrMalformedPasswordHash] if encoded cannot be split into
// a hex salt and a hex key.
func (h *passwordHasher) Verify(password, encoded string) (bool, error) {
	saltHex, keyHex, ok := strings.Cut(encoded, ":")
	if !ok {
		return false, ErrMalformedPasswordHash
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrMalformedPasswordHash
	}
	storedKey, err := hex.DecodeString(keyHex)
	if err != nil || len(storedKey) == 0 {
		return false, ErrMalformedPasswordHash
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, len(storedKey), sha512.New)

	return subtle.ConstantTimeCompare(key, storedKey) == 1, nil
}

// DummyHash implements [PasswordHasher].
func (h *passwordHasher) DummyHash() string {
	return h.dummy
}
