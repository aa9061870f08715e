// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles account creation, lookup and the lockout counter mutations
// against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
//
// A debug-level log message is emitted at construction time to aid
// application startup diagnostics.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new account record and returns the fully populated
// [models.User] with server-assigned fields (UserID, timestamps, counters).
//
// The INSERT returns all columns via a RETURNING clause, so the caller
// receives the canonical database representation of the new account.
//
// Error handling:
//   - unique-constraint violation on email → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertUserQuery(r.db.builder, user)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	created, err := r.scanUserRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Bool("retryable", r.db.isRetryable(err)).Msg("error: inserting user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return created, nil
}

// FindUserByEmail retrieves the account whose email matches the given value.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserByEmailQuery(r.db.builder, email)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := r.scanUserRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByEmail").Bool("retryable", r.db.isRetryable(err)).Msg("error: querying user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// FindUserByID retrieves the account with the given identifier. Error
// handling mirrors [userRepository.FindUserByEmail].
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectUserByIDQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: building query")
		return models.User{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := r.scanUserRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Bool("retryable", r.db.isRetryable(err)).Msg("error: querying user")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// RecordLoginFailure executes a single guarded UPDATE that increments the
// failed-attempt counter and arms the lock window when the incremented
// counter reaches threshold. The increment and the lock decision happen in
// one statement, so concurrent failures observe a consistent counter.
//
// Returns the post-increment counter and the current lock expiry (nil when
// the account is not locked).
func (r *userRepository) RecordLoginFailure(ctx context.Context, userID int64, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecordLoginFailureQuery(r.db.builder, userID, threshold, lockUntil, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RecordLoginFailure").Msg("error: building query")
		return 0, nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var attempts int
	var lockedUntil sql.NullTime
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&attempts, &lockedUntil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.RecordLoginFailure").Bool("retryable", r.db.isRetryable(err)).Msg("error: updating lockout counters")
		return 0, nil, fmt.Errorf("unexpected DB error: %w", err)
	}

	if !lockedUntil.Valid {
		return attempts, nil, nil
	}

	expiry := lockedUntil.Time
	return attempts, &expiry, nil
}

// RecordLoginSuccess resets the failed-attempt counter, clears any lock and
// stamps the last successful login time.
func (r *userRepository) RecordLoginSuccess(ctx context.Context, userID int64, loginAt time.Time) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRecordLoginSuccessQuery(r.db.builder, userID, loginAt, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RecordLoginSuccess").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingUser(ctx, "*userRepository.RecordLoginSuccess", query, args)
}

// UpdatePassword replaces the stored password hash of the account.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdatePasswordQuery(r.db.builder, userID, passwordHash, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingUser(ctx, "*userRepository.UpdatePassword", query, args)
}

// DeactivateUser soft-deactivates the account by clearing the active flag.
func (r *userRepository) DeactivateUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeactivateUserQuery(r.db.builder, userID, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeactivateUser").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execExpectingUser(ctx, "*userRepository.DeactivateUser", query, args)
}

// execExpectingUser runs a DML statement that must touch exactly one user
// row. Zero affected rows maps to [ErrNoUserWasFound].
func (r *userRepository) execExpectingUser(ctx context.Context, funcName, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Bool("retryable", r.db.isRetryable(err)).Msg("error: executing statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error: reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrNoUserWasFound
	}

	return nil
}

// scanUserRow scans one full user row in the [userColumns] order.
func (r *userRepository) scanUserRow(row *sql.Row) (models.User, error) {
	var user models.User
	var lockedUntil, lastLoginAt sql.NullTime

	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Active,
		&user.FailedLoginAttempts,
		&lockedUntil,
		&user.CreatedAt,
		&user.UpdatedAt,
		&lastLoginAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if lockedUntil.Valid {
		expiry := lockedUntil.Time
		user.LockedUntil = &expiry
	}
	if lastLoginAt.Valid {
		loginAt := lastLoginAt.Time
		user.LastLoginAt = &loginAt
	}

	return user, nil
}
