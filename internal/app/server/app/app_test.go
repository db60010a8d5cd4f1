package app

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
	"passvault/internal/app/server/config"
	"passvault/internal/app/server/crypto"
	"passvault/internal/domain/credential"
	"passvault/internal/domain/vaulterr"
	"passvault/internal/infrastructure/keysource"
	"passvault/internal/infrastructure/migration"
	"passvault/internal/infrastructure/storage"
)

func key(b byte, n int) string {
	return base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{b}, n))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DB: config.DB{
			Driver:      config.DriverSQLite,
			DatabaseURI: filepath.Join(t.TempDir(), "vault.db"),
		},
		Policy: config.Policy{Password: config.PolicyStrict, MinLength: 8},
	}
}

func newTestApp(t *testing.T, cfg *config.Config, source crypto.Source) *App {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, migration.NewMigration(cfg, nil).Up())

	store, err := storage.Open(context.Background(), cfg.DB, log)
	require.NoError(t, err)

	a := Assemble(cfg, store, source, crypto.FormatV2, log)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestKeySource(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	src, err := KeySource(&config.Config{Crypto: config.Crypto{KeySource: config.KeySourceEnv}}, log)
	require.NoError(t, err)
	assert.IsType(t, &crypto.EnvSource{}, src)

	src, err = KeySource(&config.Config{
		Crypto: config.Crypto{KeySource: config.KeySourceVault},
		Vault:  config.Vault{Address: "http://127.0.0.1:8200", Mount: "secret", Path: "passvault/keys"},
	}, log)
	require.NoError(t, err)
	assert.IsType(t, &keysource.VaultSource{}, src)

	_, err = KeySource(&config.Config{Crypto: config.Crypto{KeySource: config.KeySourceVault}}, log)
	assert.Error(t, err)

	_, err = KeySource(&config.Config{Crypto: config.Crypto{KeySource: "kms"}}, log)
	assert.Error(t, err)
}

func TestCheckKeys(t *testing.T) {
	keys := crypto.KeyMaterial{Key: key(0x11, 32), IV: key(0x22, 16), HMACKey: key(0x33, 32)}
	a := newTestApp(t, testConfig(t), keys.Source())

	assert.NoError(t, a.CheckKeys(context.Background(), "sample"))
}

func TestCheckKeys_MissingMaterial(t *testing.T) {
	a := newTestApp(t, testConfig(t), crypto.StaticSource{})

	err := a.CheckKeys(context.Background(), "sample")
	assert.ErrorIs(t, err, vaulterr.ErrConfiguration)
}

func TestAssemble_PasswordPolicy(t *testing.T) {
	keys := crypto.KeyMaterial{Key: key(0x11, 32), IV: key(0x22, 16), HMACKey: key(0x33, 32)}
	ctx := context.Background()

	strict := newTestApp(t, testConfig(t), keys.Source())
	id, err := strict.Users.Register(ctx, "alice", "", "Str0ng!Pass")
	require.NoError(t, err)

	_, err = strict.Credentials.Add(ctx, id, credential.AddInput{Site: "github.com", Username: "a", Password: "weak"})
	assert.ErrorIs(t, err, vaulterr.ErrValidation)

	cfg := testConfig(t)
	cfg.Policy.Password = config.PolicyOff
	relaxed := newTestApp(t, cfg, keys.Source())
	id, err = relaxed.Users.Register(ctx, "alice", "", "Str0ng!Pass")
	require.NoError(t, err)

	_, err = relaxed.Credentials.Add(ctx, id, credential.AddInput{Site: "github.com", Username: "a", Password: "weak"})
	assert.NoError(t, err)
}
