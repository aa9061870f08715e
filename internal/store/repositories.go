package store

import "github.com/MKhiriev/marketplace-auth/internal/logger"

// Repositories aggregates all persistence-layer implementations consumed by
// the service layer.
type Repositories struct {
	UserRepository         UserRepository
	RefreshTokenRepository RefreshTokenRepository
}

// NewRepositories constructs all repositories over the given connection.
func NewRepositories(db *DB, log *logger.Logger) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db, log),
		RefreshTokenRepository: NewRefreshTokenRepository(db, log),
	}
}
