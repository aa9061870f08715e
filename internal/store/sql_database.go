package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/migrations"
)

// DB wraps the raw database handle together with the driver-specific query
// builder, goose dialect and error classifier chosen at connect time.
// Repositories depend on this struct so they stay driver-agnostic.
type DB struct {
	*sql.DB
	builder            sq.StatementBuilderType
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies all embedded schema migrations for the connected dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// isRetryable reports whether err is a transient failure per the connected
// driver's classifier. Used for log enrichment on unexpected DB errors.
func (db *DB) isRetryable(err error) bool {
	return db.errorClassificator != nil && db.errorClassificator.Classify(err) == Retryable
}

// isUniqueViolation reports whether err is a unique-constraint violation
// from either supported driver.
func isUniqueViolation(err error) bool {
	return postgresUniqueViolation(err) || sqliteUniqueViolation(err)
}
