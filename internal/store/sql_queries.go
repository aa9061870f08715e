package store

import (
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/marketplace-auth/models"
)

// Column lists shared by the SELECT and RETURNING clauses below. Order must
// match the scan order in the repositories.
var (
	userColumns = []string{
		"user_id",
		"email",
		"password_hash",
		"role",
		"active",
		"failed_login_attempts",
		"locked_until",
		"created_at",
		"updated_at",
		"last_login_at",
	}

	refreshTokenColumns = []string{
		"id",
		"user_id",
		"token_hash",
		"expires_at",
		"revoked",
		"created_at",
	}
)

// buildInsertUserQuery builds the account INSERT. Lockout counters and
// timestamps come from column defaults; the RETURNING clause hands the
// canonical row back to the caller.
func buildInsertUserQuery(b sq.StatementBuilderType, user models.User) (string, []any, error) {
	return b.Insert(user.TableName()).
		Columns("email", "password_hash", "role").
		Values(user.Email, user.PasswordHash, user.Role).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
}

func buildSelectUserByEmailQuery(b sq.StatementBuilderType, email string) (string, []any, error) {
	return b.Select(userColumns...).
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
}

func buildSelectUserByIDQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Select(userColumns...).
		From("users").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

// buildRecordLoginFailureQuery builds the single guarded UPDATE behind the
// lockout counter. Three decisions live in one statement so two concurrent
// failed logins can never observe an inconsistent row: an expired lock
// window grants a fresh allowance (the counter becomes 1 for this failure
// and the stale lock clears), otherwise the counter increments, and the
// lock arms whenever the resulting counter reaches threshold.
func buildRecordLoginFailureQuery(b sq.StatementBuilderType, userID int64, threshold int, lockUntil, now time.Time) (string, []any, error) {
	return b.Update("users").
		Set("failed_login_attempts", sq.Expr(
			"CASE WHEN locked_until IS NOT NULL AND locked_until <= ? THEN 1 ELSE failed_login_attempts + 1 END",
			now)).
		Set("locked_until", sq.Expr(
			"CASE WHEN locked_until IS NOT NULL AND locked_until <= ? THEN CASE WHEN 1 >= ? THEN ? ELSE NULL END WHEN failed_login_attempts + 1 >= ? THEN ? ELSE locked_until END",
			now, threshold, lockUntil, threshold, lockUntil)).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING failed_login_attempts, locked_until").
		ToSql()
}

func buildRecordLoginSuccessQuery(b sq.StatementBuilderType, userID int64, loginAt, now time.Time) (string, []any, error) {
	return b.Update("users").
		Set("failed_login_attempts", 0).
		Set("locked_until", nil).
		Set("last_login_at", loginAt).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildUpdatePasswordQuery(b sq.StatementBuilderType, userID int64, passwordHash string, now time.Time) (string, []any, error) {
	return b.Update("users").
		Set("password_hash", passwordHash).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildDeactivateUserQuery(b sq.StatementBuilderType, userID int64, now time.Time) (string, []any, error) {
	return b.Update("users").
		Set("active", false).
		Set("updated_at", now).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
}

func buildInsertRefreshTokenQuery(b sq.StatementBuilderType, record models.RefreshToken) (string, []any, error) {
	return b.Insert(record.TableName()).
		Columns("id", "user_id", "token_hash", "expires_at").
		Values(record.ID, record.UserID, record.TokenHash, record.ExpiresAt).
		Suffix("RETURNING " + strings.Join(refreshTokenColumns, ", ")).
		ToSql()
}

func buildSelectRefreshTokenQuery(b sq.StatementBuilderType, tokenHash string) (string, []any, error) {
	return b.Select(refreshTokenColumns...).
		From("refresh_tokens").
		Where(sq.Eq{"token_hash": tokenHash}).
		ToSql()
}

// buildRevokeRefreshTokenQuery builds the guarded revocation UPDATE. The
// revoked = FALSE predicate makes revocation idempotent at the SQL level.
func buildRevokeRefreshTokenQuery(b sq.StatementBuilderType, tokenHash string) (string, []any, error) {
	return b.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"token_hash": tokenHash}).
		Where(sq.Eq{"revoked": false}).
		ToSql()
}

func buildRevokeAllUserTokensQuery(b sq.StatementBuilderType, userID int64) (string, []any, error) {
	return b.Update("refresh_tokens").
		Set("revoked", true).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"revoked": false}).
		ToSql()
}
