// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/service"
	"github.com/MKhiriev/marketplace-auth/models"
)

// ─────────────────────────────────────────────
// Mock: service.AuthService
// ─────────────────────────────────────────────

type mockAuthService struct {
	registerFn       func(ctx context.Context, request models.RegisterRequest) (models.User, models.TokenPair, error)
	loginFn          func(ctx context.Context, request models.LoginRequest) (models.User, models.TokenPair, error)
	refreshFn        func(ctx context.Context, refreshToken string) (string, error)
	logoutFn         func(ctx context.Context, refreshToken string) error
	changePasswordFn func(ctx context.Context, userID int64, request models.ChangePasswordRequest) error
	getUserFn        func(ctx context.Context, userID int64) (models.User, error)
	deactivateUserFn func(ctx context.Context, userID int64) error
}

func (m *mockAuthService) Register(ctx context.Context, request models.RegisterRequest) (models.User, models.TokenPair, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, request)
	}
	return models.User{}, models.TokenPair{}, nil
}

func (m *mockAuthService) Login(ctx context.Context, request models.LoginRequest) (models.User, models.TokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, request)
	}
	return models.User{}, models.TokenPair{}, nil
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, refreshToken)
	}
	return "", nil
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, refreshToken)
	}
	return nil
}

func (m *mockAuthService) ChangePassword(ctx context.Context, userID int64, request models.ChangePasswordRequest) error {
	if m.changePasswordFn != nil {
		return m.changePasswordFn(ctx, userID, request)
	}
	return nil
}

func (m *mockAuthService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockAuthService) DeactivateUser(ctx context.Context, userID int64) error {
	if m.deactivateUserFn != nil {
		return m.deactivateUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: service.TokenService
// ─────────────────────────────────────────────

type mockTokenService struct {
	issueAccessTokenFn   func(user models.User) (string, error)
	issueRefreshTokenFn  func(user models.User, tokenID string) (string, error)
	verifyAccessTokenFn  func(tokenString string) (models.Identity, error)
	verifyRefreshTokenFn func(tokenString string) (int64, string, error)
}

func (m *mockTokenService) IssueAccessToken(user models.User) (string, error) {
	if m.issueAccessTokenFn != nil {
		return m.issueAccessTokenFn(user)
	}
	return "access-token", nil
}

func (m *mockTokenService) IssueRefreshToken(user models.User, tokenID string) (string, error) {
	if m.issueRefreshTokenFn != nil {
		return m.issueRefreshTokenFn(user, tokenID)
	}
	return "refresh-token", nil
}

func (m *mockTokenService) VerifyAccessToken(tokenString string) (models.Identity, error) {
	if m.verifyAccessTokenFn != nil {
		return m.verifyAccessTokenFn(tokenString)
	}
	return models.Identity{}, service.ErrTokenIsInvalid
}

func (m *mockTokenService) VerifyRefreshToken(tokenString string) (int64, string, error) {
	if m.verifyRefreshTokenFn != nil {
		return m.verifyRefreshTokenFn(tokenString)
	}
	return 0, "", service.ErrTokenIsInvalid
}

// ─────────────────────────────────────────────
// Mock: service.AuditRecorder
// ─────────────────────────────────────────────

type mockAuditRecorder struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (m *mockAuditRecorder) Record(_ context.Context, event models.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockAuditRecorder) denials() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, event := range m.events {
		if event.Outcome == models.AuditOutcomeDenied {
			count++
		}
	}
	return count
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

// newTestRouter wires a full router over the given mocks so requests pass
// through the real middleware chain.
func newTestRouter(auth *mockAuthService, tokens *mockTokenService, audit *mockAuditRecorder) *chi.Mux {
	handler := NewHandler(&service.Services{
		AuthService:  auth,
		TokenService: tokens,
	}, audit, logger.Nop())

	return handler.Init()
}

// tokenServiceFor returns a token service mock accepting exactly one bearer
// token and resolving it to the given identity.
func tokenServiceFor(validToken string, identity models.Identity) *mockTokenService {
	return &mockTokenService{
		verifyAccessTokenFn: func(tokenString string) (models.Identity, error) {
			if tokenString == validToken {
				return identity, nil
			}
			return models.Identity{}, service.ErrTokenIsInvalid
		},
	}
}

// decodeErrorResponse parses the machine-readable error envelope.
func decodeErrorResponse(t *testing.T, body io.Reader) models.ErrorResponse {
	t.Helper()

	var envelope models.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope
}
