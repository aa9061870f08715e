package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/marketplace-auth/internal/audit"
	"github.com/MKhiriev/marketplace-auth/internal/config"
	"github.com/MKhiriev/marketplace-auth/internal/handler"
	"github.com/MKhiriev/marketplace-auth/internal/logger"
	"github.com/MKhiriev/marketplace-auth/internal/server"
	"github.com/MKhiriev/marketplace-auth/internal/service"
	"github.com/MKhiriev/marketplace-auth/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("marketplace-auth")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx := context.Background()

	db, err := connectDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	repositories := store.NewRepositories(db, log)

	dispatcher, err := newAuditDispatcher(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating audit dispatcher")
	}
	defer dispatcher.Close()

	services, err := service.NewServices(repositories, cfg, dispatcher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, dispatcher, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// connectDatabase selects the storage backend by DSN scheme: Postgres for
// "postgres://" DSNs, the local SQLite store for everything else.
func connectDatabase(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*store.DB, error) {
	dsn := cfg.Storage.DB.DSN
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	}
	return store.NewConnectSQLite(ctx, cfg.Storage.DB, log)
}

// newAuditDispatcher builds the asynchronous audit pipeline: the structured
// log sink is always on; an external webhook collector joins it when
// configured.
func newAuditDispatcher(cfg *config.StructuredConfig, log *logger.Logger) (*audit.Dispatcher, error) {
	var sink audit.Sink = audit.NewLogSink(log)

	if cfg.Audit.WebhookURL != "" {
		webhook, err := audit.NewWebhookSink(cfg.Audit, log)
		if err != nil {
			return nil, err
		}
		sink = audit.NewMultiSink(sink, webhook)
	}

	return audit.NewDispatcher(cfg.Audit.BufferSize, sink, log), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
