// Package app assembles the vault services from configuration. Both the HTTP
// server and the admin CLI build on it.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/config"
	"passvault/internal/app/server/crypto"
	"passvault/internal/domain/audit"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/session"
	"passvault/internal/domain/sharing"
	"passvault/internal/domain/user"
	"passvault/internal/infrastructure/keysource"
	"passvault/internal/infrastructure/storage"
)

type App struct {
	Storage   *storage.Storage
	Keys      *crypto.KeyProvider
	Encryptor *crypto.Encryptor

	Users       *user.Service
	Sessions    *session.Service
	Credentials *credential.Service
	Sharing     *sharing.Service
	Audit       *audit.Service
}

// New opens the store and wires every service. Key material is not read
// here; a bad key surfaces as a configuration error on first use.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	source, err := KeySource(cfg, log)
	if err != nil {
		return nil, err
	}

	format, err := crypto.ParseFormat(cfg.Crypto.CipherFormat)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return Assemble(cfg, store, source, format, log), nil
}

// Assemble wires the services over an already opened store.
func Assemble(cfg *config.Config, store *storage.Storage, source crypto.Source, format crypto.Format, log *slog.Logger) *App {
	keys := crypto.NewKeyProvider(source)
	enc := crypto.NewEncryptor(keys, format)
	recorder := audit.NewRecorder(store.Audit, log)

	validator := user.NewPasswordValidator().WithMinLength(cfg.Policy.MinLength)
	users := user.NewService(store.Users, validator, log)

	deps := credential.Deps{
		Repo:      store.Credentials,
		Tx:        store,
		Cipher:    enc,
		Directory: users,
		Audit:     recorder,
	}
	if cfg.Policy.Password != config.PolicyOff {
		deps.Policy = validator
	}
	creds := credential.NewService(deps, log)

	share := sharing.NewService(sharing.Deps{
		Repo:      store.Invitations,
		Tx:        store,
		Vault:     creds,
		Directory: users,
		Audit:     recorder,
	}, log)

	return &App{
		Storage:     store,
		Keys:        keys,
		Encryptor:   enc,
		Users:       users,
		Sessions:    session.NewService(store.Sessions, cfg.Server.SessionTTL, log),
		Credentials: creds,
		Sharing:     share,
		Audit:       audit.NewService(store.Audit, log),
	}
}

// KeySource picks the key material backend named by KEY_SOURCE.
func KeySource(cfg *config.Config, log *slog.Logger) (crypto.Source, error) {
	switch cfg.Crypto.KeySource {
	case config.KeySourceEnv, "":
		return crypto.NewEnvSource(viper.New()), nil
	case config.KeySourceVault:
		src, err := keysource.NewVaultSource(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.Mount, cfg.Vault.Path, log)
		if err != nil {
			return nil, fmt.Errorf("vault key source: %w", err)
		}
		return src, nil
	}
	return nil, fmt.Errorf("unsupported key source %q", cfg.Crypto.KeySource)
}

// CheckKeys runs the encryptor self-test against the configured key source.
func (a *App) CheckKeys(ctx context.Context, sample string) error {
	return a.Encryptor.SelfTest(ctx, sample)
}

func (a *App) Close() error {
	return a.Storage.Close()
}
