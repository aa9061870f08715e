package handler

import (
	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/handler/http"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, audit service.AuditRecorder, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{
		HTTP: http.NewHandler(services, audit, logger),
	}, nil
}
