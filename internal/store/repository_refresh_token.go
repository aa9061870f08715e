// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/utils"
	"github.com/MKhiriev/marketplace-auth/models"
)

// refreshTokenRepository is the SQL-backed implementation of
// [RefreshTokenRepository]. Every method fingerprints the raw token with
// [utils.HashToken] before touching the database, so the ledger only ever
// sees one-way digests.
type refreshTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRefreshTokenRepository constructs a [RefreshTokenRepository] backed by
// the provided database connection and logger.
func NewRefreshTokenRepository(db *DB, logger *logger.Logger) RefreshTokenRepository {
	logger.Debug().Msg("creating refresh token repository")
	return &refreshTokenRepository{
		db:     db,
		logger: logger,
	}
}

// RecordToken inserts a ledger row for a freshly issued token and returns
// the canonical persisted record.
func (r *refreshTokenRepository) RecordToken(ctx context.Context, record models.RefreshToken, rawToken string) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	record.TokenHash = utils.HashToken(rawToken)

	query, args, err := buildInsertRefreshTokenQuery(r.db.builder, record)
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RecordToken").Msg("error: building query")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	saved, err := r.scanTokenRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RecordToken").Bool("retryable", r.db.isRetryable(err)).Msg("error: inserting refresh token")
		return models.RefreshToken{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return saved, nil
}

// FindToken retrieves the ledger row matching the raw token.
//
// Error handling:
//   - No matching row → [ErrRefreshTokenNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *refreshTokenRepository) FindToken(ctx context.Context, rawToken string) (models.RefreshToken, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectRefreshTokenQuery(r.db.builder, utils.HashToken(rawToken))
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.FindToken").Msg("error: building query")
		return models.RefreshToken{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	found, err := r.scanTokenRow(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.RefreshToken{}, ErrRefreshTokenNotFound
		}
		log.Err(err).Str("func", "*refreshTokenRepository.FindToken").Bool("retryable", r.db.isRetryable(err)).Msg("error: querying refresh token")
		return models.RefreshToken{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return found, nil
}

// RevokeToken marks the ledger row matching the raw token as revoked.
// The UPDATE is guarded by revoked = FALSE, so revoking an unknown or
// already revoked token affects zero rows and is not an error.
func (r *refreshTokenRepository) RevokeToken(ctx context.Context, rawToken string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildRevokeRefreshTokenQuery(r.db.builder, utils.HashToken(rawToken))
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeToken").Msg("error: building query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeToken").Bool("retryable", r.db.isRetryable(err)).Msg("error: revoking refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		log.Debug().Str("func", "*refreshTokenRepository.RevokeToken").Msg("no live token matched; revocation is a no-op")
	}

	return nil
}

// RevokeAllUserTokens revokes every live token of the given user and returns
// the number of ledger rows flipped.
func (r *refreshTokenRepository) RevokeAllUserTokens(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRevokeAllUserTokensQuery(r.db.builder, userID)
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeAllUserTokens").Msg("error: building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeAllUserTokens").Bool("retryable", r.db.isRetryable(err)).Msg("error: revoking user tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*refreshTokenRepository.RevokeAllUserTokens").Msg("error: reading affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// scanTokenRow scans one full ledger row in the [refreshTokenColumns] order.
func (r *refreshTokenRepository) scanTokenRow(row *sql.Row) (models.RefreshToken, error) {
	var token models.RefreshToken

	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.Revoked,
		&token.CreatedAt,
	)
	if err != nil {
		return models.RefreshToken{}, err
	}

	return token, nil
}
