package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/store"
	"github.com/MKhiriev/marketplace-auth/models"
)

// lockoutManager implements the progressive lockout policy over the user
// repository's atomic counter updates. It holds no in-process state: all
// counters live in the user row, so concurrent failed logins from several
// instances still converge on one lock decision.
type lockoutManager struct {
	userRepository store.UserRepository

	// threshold is the number of consecutive failures that locks the account.
	threshold int

	// lockDuration is the length of the lock window applied at the threshold.
	lockDuration time.Duration

	logger *logger.Logger
}

func newLockoutManager(userRepository store.UserRepository, cfg config.Lockout, logger *logger.Logger) *lockoutManager {
	return &lockoutManager{
		userRepository: userRepository,
		threshold:      cfg.Threshold,
		lockDuration:   cfg.Duration,
		logger:         logger,
	}
}

// registerFailure bumps the failure counter for the account and reports
// whether this particular failure tripped the lock. The increment and the
// conditional lock stamp happen in one guarded UPDATE, so two concurrent
// failed logins can never both miss the threshold. A failure arriving
// after the lock window elapsed restarts the count at 1 instead of piling
// onto the stale counter, so the account gets a fresh allowance.
func (m *lockoutManager) registerFailure(ctx context.Context, userID int64) (bool, error) {
	log := logger.FromContext(ctx)

	lockUntil := time.Now().UTC().Add(m.lockDuration)
	attempts, lockedUntil, err := m.userRepository.RecordLoginFailure(ctx, userID, m.threshold, lockUntil)
	if err != nil {
		return false, fmt.Errorf("recording login failure ended with error: %w", err)
	}

	locked := attempts >= m.threshold && lockedUntil != nil
	if locked {
		log.Warn().
			Int64("id", userID).
			Int("attempts", attempts).
			Time("lockedUntil", *lockedUntil).
			Str("func", "*lockoutManager.registerFailure").
			Msg("account locked after repeated failed logins")
	}

	return locked, nil
}

// registerSuccess resets the failure counter, clears any lock and stamps
// the login time in one statement.
func (m *lockoutManager) registerSuccess(ctx context.Context, userID int64) error {
	if err := m.userRepository.RecordLoginSuccess(ctx, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("recording login success ended with error: %w", err)
	}
	return nil
}

// isLocked checks the lock lazily against the wall clock. An expired lock
// needs no storage mutation to clear; the counter reset happens on the next
// successful login.
func (m *lockoutManager) isLocked(user models.User) bool {
	return user.LockedAt(time.Now().UTC())
}
