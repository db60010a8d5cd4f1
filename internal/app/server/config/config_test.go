package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, ":8080", cfg.Server.RunAddress)
	assert.Equal(t, 24*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, KeySourceEnv, cfg.Crypto.KeySource)
	assert.Equal(t, "v2", cfg.Crypto.CipherFormat)
	assert.Equal(t, PolicyStrict, cfg.Policy.Password)
	assert.Equal(t, 8, cfg.Policy.MinLength)
	assert.False(t, cfg.Server.TrustProxyHeaders)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", DriverSQLite)
	t.Setenv("DATABASE_URI", "file:vault.db")
	t.Setenv("CIPHER_FORMAT", "legacy")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("PASSWORD_POLICY", PolicyOff)
	t.Setenv("VAULT_ADDR", "http://127.0.0.1:8200")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := FromViper(viper.New())

	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "file:vault.db", cfg.DB.DatabaseURI)
	assert.Equal(t, "legacy", cfg.Crypto.CipherFormat)
	assert.Equal(t, 2*time.Hour, cfg.Server.SessionTTL)
	assert.Equal(t, PolicyOff, cfg.Policy.Password)
	assert.Equal(t, "http://127.0.0.1:8200", cfg.Vault.Address)
	assert.True(t, cfg.Server.TrustProxyHeaders)
}
