package service

import (
	"fmt"

	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/crypto"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/store"
)

type Services struct {
	AuthService  AuthService
	TokenService TokenService
}

func NewServices(repositories *store.Repositories, cfg *config.StructuredConfig, audit AuditRecorder, logger *logger.Logger) (*Services, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.Auth.HashIterations)
	if err != nil {
		return nil, fmt.Errorf("password hasher init ended with error: %w", err)
	}

	tokenService := NewTokenService(cfg.Auth, logger)
	lockout := newLockoutManager(repositories.UserRepository, cfg.Lockout, logger)

	return &Services{
		AuthService: NewAuthService(
			repositories.UserRepository,
			repositories.RefreshTokenRepository,
			tokenService,
			hasher,
			lockout,
			cfg.Auth,
			audit,
			logger,
		),
		TokenService: tokenService,
	}, nil
}
