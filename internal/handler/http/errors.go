// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
// incoming request does not include an "Authorization" header at all.
// Callers can match against it with [errors.Is].
var ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

// Machine-readable error codes carried in the error response envelope.
// Codes are part of the public API contract and must stay stable.
const (
	codeValidationFailed   = "VALIDATION_FAILED"
	codeEmailTaken         = "AUTH_EMAIL_TAKEN"
	codeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	codeAccountLocked      = "AUTH_ACCOUNT_LOCKED"
	codeWrongPassword      = "AUTH_WRONG_PASSWORD"
	codeTokenMissing       = "AUTH_TOKEN_MISSING"
	codeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	codeTokenInvalid       = "AUTH_TOKEN_INVALID"
	codeTokenRevoked       = "AUTH_TOKEN_REVOKED"
	codeForbidden          = "AUTHZ_FORBIDDEN"
	codeNotFound           = "NOT_FOUND"
	codeInternal           = "INTERNAL"
)
