package http

import (
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/service"
	"github.com/MKhiriev/marketplace-auth/internal/validators"
)

type Handler struct {
	services  *service.Services
	validator validators.Validator
	audit     service.AuditRecorder

	logger *logger.Logger
}

func NewHandler(services *service.Services, audit service.AuditRecorder, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		validator: validators.NewCredentialsValidator(),
		audit:     audit,
		logger:    logger,
	}
}
