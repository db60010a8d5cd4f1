package storage

import (
	"context"
	"fmt"

	"golang.org/x/exp/slog"
	"passvault/internal/app/server/config"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/session"
	"passvault/internal/domain/sharing"
	"passvault/internal/domain/txn"
	"passvault/internal/domain/user"
	"passvault/internal/infrastructure/storage/postgres"
	"passvault/internal/infrastructure/storage/sqlite"
)

// Backend is what a driver exposes besides its repositories.
type Backend interface {
	txn.Transactor
	Ping(ctx context.Context) error
	Close() error
}

// Storage bundles the repositories of one driver with its transactor.
type Storage struct {
	Backend

	Users       user.Repository
	Sessions    session.Repository
	Credentials credential.Repository
	Invitations sharing.Repository
	Audit       audit.Repository
}

// Open connects to the configured driver. Migrations are not applied here.
func Open(ctx context.Context, cfg config.DB, log *slog.Logger) (*Storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}

		log.Info("storage opened", "driver", cfg.Driver)

		return &Storage{
			Backend:     db,
			Users:       postgres.NewUserRepository(db, log),
			Sessions:    postgres.NewSessionRepository(db, log),
			Credentials: postgres.NewCredentialRepository(db, log),
			Invitations: postgres.NewInvitationRepository(db, log),
			Audit:       postgres.NewAuditRepository(db, log),
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.New(cfg.DatabaseURI)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}

		log.Info("storage opened", "driver", cfg.Driver, "path", sqlite.Path(cfg.DatabaseURI))

		return &Storage{
			Backend:     db,
			Users:       sqlite.NewUserRepository(db, log),
			Sessions:    sqlite.NewSessionRepository(db, log),
			Credentials: sqlite.NewCredentialRepository(db, log),
			Invitations: sqlite.NewInvitationRepository(db, log),
			Audit:       sqlite.NewAuditRepository(db, log),
		}, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
