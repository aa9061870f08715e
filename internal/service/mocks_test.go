package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/marketplace-auth/models"
)

// ─────────────────────────────────────────────
// Mock: store.UserRepository
// ─────────────────────────────────────────────

type mockUserRepository struct {
	createUserFn         func(ctx context.Context, user models.User) (models.User, error)
	findUserByEmailFn    func(ctx context.Context, email string) (models.User, error)
	findUserByIDFn       func(ctx context.Context, userID int64) (models.User, error)
	recordLoginFailureFn func(ctx context.Context, userID int64, threshold int, lockUntil time.Time) (int, *time.Time, error)
	recordLoginSuccessFn func(ctx context.Context, userID int64, loginAt time.Time) error
	updatePasswordFn     func(ctx context.Context, userID int64, passwordHash string) error
	deactivateUserFn     func(ctx context.Context, userID int64) error
}

func (m *mockUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, user)
	}
	return user, nil
}

func (m *mockUserRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	if m.findUserByEmailFn != nil {
		return m.findUserByEmailFn(ctx, email)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	if m.findUserByIDFn != nil {
		return m.findUserByIDFn(ctx, userID)
	}
	return models.User{}, nil
}

func (m *mockUserRepository) RecordLoginFailure(ctx context.Context, userID int64, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	if m.recordLoginFailureFn != nil {
		return m.recordLoginFailureFn(ctx, userID, threshold, lockUntil)
	}
	return 1, nil, nil
}

func (m *mockUserRepository) RecordLoginSuccess(ctx context.Context, userID int64, loginAt time.Time) error {
	if m.recordLoginSuccessFn != nil {
		return m.recordLoginSuccessFn(ctx, userID, loginAt)
	}
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepository) DeactivateUser(ctx context.Context, userID int64) error {
	if m.deactivateUserFn != nil {
		return m.deactivateUserFn(ctx, userID)
	}
	return nil
}

// ─────────────────────────────────────────────
// Mock: store.RefreshTokenRepository
// ─────────────────────────────────────────────

type mockRefreshTokenRepository struct {
	recordTokenFn         func(ctx context.Context, record models.RefreshToken, rawToken string) (models.RefreshToken, error)
	findTokenFn           func(ctx context.Context, rawToken string) (models.RefreshToken, error)
	revokeTokenFn         func(ctx context.Context, rawToken string) error
	revokeAllUserTokensFn func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockRefreshTokenRepository) RecordToken(ctx context.Context, record models.RefreshToken, rawToken string) (models.RefreshToken, error) {
	if m.recordTokenFn != nil {
		return m.recordTokenFn(ctx, record, rawToken)
	}
	return record, nil
}

func (m *mockRefreshTokenRepository) FindToken(ctx context.Context, rawToken string) (models.RefreshToken, error) {
	if m.findTokenFn != nil {
		return m.findTokenFn(ctx, rawToken)
	}
	return models.RefreshToken{}, nil
}

func (m *mockRefreshTokenRepository) RevokeToken(ctx context.Context, rawToken string) error {
	if m.revokeTokenFn != nil {
		return m.revokeTokenFn(ctx, rawToken)
	}
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) (int64, error) {
	if m.revokeAllUserTokensFn != nil {
		return m.revokeAllUserTokensFn(ctx, userID)
	}
	return 0, nil
}

// ─────────────────────────────────────────────
// Mock: AuditRecorder
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

func (m *mockAuditRecorder) snapshot() []models.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}

// has reports whether an event with the given action and outcome was recorded.
func (m *mockAuditRecorder) has(action, outcome string) bool {
	for _, event := range m.snapshot() {
		if event.Action == action && event.Outcome == outcome {
			return true
		}
	}
	return false
}
